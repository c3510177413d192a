package handlers

import (
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
)

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID,
		SellerID:  p.SellerID,
		Title:     p.Title,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	history := make([]dto.StatusEntryResponse, 0, len(o.StatusHistory))
	for _, e := range o.StatusHistory {
		history = append(history, dto.StatusEntryResponse{
			Status:    string(e.Status),
			Timestamp: e.Timestamp,
			UpdatedBy: e.UpdatedBy,
		})
	}
	return dto.OrderResponse{
		ID:            o.ID,
		BuyerID:       o.BuyerID,
		SellerID:      o.SellerID,
		ProductID:     o.ProductID,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice,
		PaymentMethod: string(o.PaymentMethod),
		CurrentStatus: string(o.CurrentStatus),
		StatusHistory: history,
		ShippingAddress: dto.ShippingAddress{
			Street:     o.ShippingAddress.Street,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return resp
}
