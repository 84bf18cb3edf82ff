package entity

import "time"

const (
	IPNCallbackStatusProcessed int32 = 10
	IPNCallbackStatusRejected  int32 = 20
)

type IPNCallback struct {
	ID uint64

	OrderID *uint64

	Event       string
	Signature   string
	PayloadJSON string
	Status      int32
	Error       *string

	CreatedAt time.Time
}
