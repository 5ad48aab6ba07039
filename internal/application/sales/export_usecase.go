package sales

import (
	"context"

	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/repository"
)

// SaleExportUseCase resuelve los nombres de cliente, productos y servicios de
// una venta y delega el render al generador (PDF) o al exportador (XML).
type SaleExportUseCase struct {
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	serviceRepo repository.ServiceRepository
	receipts    ReceiptGenerator
	xml         XMLExporter
}

// NewSaleExportUseCase construye el caso de uso.
func NewSaleExportUseCase(
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	serviceRepo repository.ServiceRepository,
	receipts ReceiptGenerator,
	xml XMLExporter,
) *SaleExportUseCase {
	return &SaleExportUseCase{
		saleRepo:    saleRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		serviceRepo: serviceRepo,
		receipts:    receipts,
		xml:         xml,
	}
}

// ReceiptPDF genera el recibo PDF de la venta.
func (uc *SaleExportUseCase) ReceiptPDF(ctx context.Context, saleID string) ([]byte, error) {
	data, err := uc.buildReceiptData(saleID)
	if err != nil {
		return nil, err
	}
	return uc.receipts.Generate(*data)
}

// ExportXML serializa la venta a XML.
func (uc *SaleExportUseCase) ExportXML(ctx context.Context, saleID string) ([]byte, error) {
	data, err := uc.buildReceiptData(saleID)
	if err != nil {
		return nil, err
	}
	return uc.xml.Export(*data)
}

// buildReceiptData carga la venta con líneas y resuelve cada nombre. Una
// referencia colgante (producto o servicio eliminado) no impide exportar: la
// línea sale con el ID como descripción.
func (uc *SaleExportUseCase) buildReceiptData(saleID string) (*ReceiptData, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	sale.ProductLines, err = uc.saleRepo.ListProductLines(saleID)
	if err != nil {
		return nil, err
	}
	sale.ServiceLines, err = uc.saleRepo.ListServiceLines(saleID)
	if err != nil {
		return nil, err
	}

	clientName := sale.ClientID
	if client, err := uc.clientRepo.GetByID(sale.ClientID); err != nil {
		return nil, err
	} else if client != nil {
		clientName = client.Name
	}

	data := &ReceiptData{
		SaleID:     sale.ID,
		Date:       sale.Date.Format("2006-01-02 15:04"),
		ClientName: clientName,
		Total:      sale.Total.StringFixed(2),
	}
	for _, pl := range sale.ProductLines {
		desc := pl.ProductID
		if product, err := uc.productRepo.GetByID(pl.ProductID); err != nil {
			return nil, err
		} else if product != nil {
			desc = product.Name
		}
		data.Lines = append(data.Lines, ReceiptLine{
			Description: desc,
			Quantity:    pl.Quantity,
			UnitValue:   pl.UnitValue.StringFixed(2),
			TotalValue:  pl.TotalValue.StringFixed(2),
		})
	}
	for _, sl := range sale.ServiceLines {
		desc := sl.ServiceID
		if service, err := uc.serviceRepo.GetByID(sl.ServiceID); err != nil {
			return nil, err
		} else if service != nil {
			desc = service.Name
		}
		if sl.Details != "" {
			desc = desc + " (" + sl.Details + ")"
		}
		data.Lines = append(data.Lines, ReceiptLine{
			Description: desc,
			Quantity:    1,
			UnitValue:   sl.Price.StringFixed(2),
			TotalValue:  sl.TotalValue.StringFixed(2),
			IsService:   true,
		})
	}
	return data, nil
}
