package service

import (
	"time"

	"github.com/mmynk/mefinance/internal/models"
	"github.com/mmynk/mefinance/pkg/api"
)

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsPremium: u.IsPremium,
		CreatedAt: unixTime(u.CreatedAt),
	}
}

func toAPIBalance(b *models.Balance) *api.Balance {
	return &api.Balance{
		ID:            b.ID,
		UserID:        b.UserID,
		Amount:        b.Amount,
		InitialAmount: b.InitialAmount,
		CreatedAt:     unixTime(b.CreatedAt),
		UpdatedAt:     unixTime(b.UpdatedAt),
	}
}

func toAPICategory(c *models.Category) *api.Category {
	return &api.Category{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   unixTime(c.CreatedAt),
	}
}

func toAPIBill(b *models.Bill) *api.Bill {
	out := &api.Bill{
		ID:          b.ID,
		UserID:      b.UserID,
		CategoryID:  b.CategoryID,
		Name:        b.Name,
		Description: b.Description,
		Amount:      b.Amount,
		DueDate:     unixTime(b.DueDate),
		IsPaid:      b.IsPaid,
		PaymentID:   b.PaymentID,
		CreatedAt:   unixTime(b.CreatedAt),
	}
	if b.IsPaid && b.PaidDate != 0 {
		paid := unixTime(b.PaidDate)
		out.PaidDate = &paid
	}
	return out
}

func toAPIIncome(i *models.Income) *api.Income {
	return &api.Income{
		ID:           i.ID,
		UserID:       i.UserID,
		CategoryID:   i.CategoryID,
		Name:         i.Name,
		Description:  i.Description,
		Amount:       i.Amount,
		ReceivedDate: unixTime(i.ReceivedDate),
	}
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:          p.ID,
		UserID:      p.UserID,
		CategoryID:  p.CategoryID,
		BillID:      p.BillID,
		Name:        p.Name,
		Description: p.Description,
		Amount:      p.Amount,
		PaidDate:    unixTime(p.PaidDate),
	}
}
