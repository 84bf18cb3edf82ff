package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-tripay/app/entity"
	"github.com/vibast-solutions/ms-go-tripay/app/types"
)

func OrderToResponse(item *entity.Order, notes []*entity.OrderNote) *types.Order {
	if item == nil {
		return nil
	}

	return &types.Order{
		ID:             item.ID,
		Status:         string(item.Status),
		TransactionRef: item.TransactionRef,
		AmountDue:      item.AmountDue,
		Currency:       item.Currency,
		CustomerName:   item.CustomerName,
		CustomerEmail:  item.CustomerEmail,
		CustomerPhone:  item.CustomerPhone,
		Channel:        item.Channel,
		CheckoutURL:    derefString(item.CheckoutURL),
		ExpiresAt:      item.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339),
		Notes:          notesToResponse(notes),
	}
}

func notesToResponse(notes []*entity.OrderNote) []types.OrderNote {
	result := make([]types.OrderNote, 0, len(notes))
	for _, note := range notes {
		result = append(result, types.OrderNote{
			Note:      note.Note,
			CreatedAt: note.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return result
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
