package tripay

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidMerchantRef = errors.New("invalid merchant ref")

// NewMerchantRef builds a merchant reference of the form
// <prefix>-<orderID>-<suffix>, e.g. EDD-12-6a87bfd155c3. The order ID sits
// at segment index 1; ParseMerchantRef relies on that position, so the
// shape is a fixed wire format. The random suffix keeps references unique
// across payment attempts for the same order.
func NewMerchantRef(prefix string, orderID uint64) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return prefix + "-" + strconv.FormatUint(orderID, 10) + "-" + suffix
}

// ParseMerchantRef extracts the order ID from a merchant reference.
func ParseMerchantRef(ref string) (uint64, error) {
	parts := strings.Split(ref, "-")
	if len(parts) < 2 {
		return 0, ErrInvalidMerchantRef
	}

	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidMerchantRef
	}
	return id, nil
}
