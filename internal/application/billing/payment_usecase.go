package billing

import (
	"github.com/nqcrm/crm-api/internal/application/dto"
	"github.com/nqcrm/crm-api/internal/domain/entity"
	"github.com/nqcrm/crm-api/internal/domain/repository"
)

// PaymentUseCase lecturas sobre pagos registrados. Los pagos se crean solo
// desde InvoiceUseCase al marcar una factura como pagada.
type PaymentUseCase struct {
	repo repository.PaymentRepository
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(repo repository.PaymentRepository) *PaymentUseCase {
	return &PaymentUseCase{repo: repo}
}

// List devuelve pagos paginados, más reciente primero.
func (uc *PaymentUseCase) List(page dto.PageRequest) (*dto.PaymentListResponse, error) {
	page.DefaultPage()
	payments, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, toPaymentResponse(p))
	}
	return &dto.PaymentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:         p.ID,
		InvoiceID:  p.InvoiceID,
		ClientID:   p.ClientID,
		ClientName: p.ClientName,
		Amount:     p.Amount,
		Currency:   p.Currency,
		Status:     p.Status,
		Reference:  p.Reference,
		CreatedAt:  p.CreatedAt,
	}
}
