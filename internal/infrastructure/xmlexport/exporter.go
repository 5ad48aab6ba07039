// Package xmlexport serializa una venta a XML para intercambio con sistemas
// contables externos.
package xmlexport

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/technova/ventas-api/internal/application/sales"
)

var _ sales.XMLExporter = (*Exporter)(nil)

// Exporter implementa sales.XMLExporter usando etree.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export construye el documento XML de la venta y devuelve sus bytes,
// indentado para lectura humana.
func (e *Exporter) Export(data sales.ReceiptData) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	venta := doc.CreateElement("Venta")
	venta.CreateAttr("id", data.SaleID)
	venta.CreateElement("Fecha").SetText(data.Date)
	venta.CreateElement("Cliente").SetText(data.ClientName)

	lineas := venta.CreateElement("Lineas")
	for _, l := range data.Lines {
		linea := lineas.CreateElement("Linea")
		if l.IsService {
			linea.CreateAttr("tipo", "servicio")
		} else {
			linea.CreateAttr("tipo", "producto")
		}
		linea.CreateElement("Descripcion").SetText(l.Description)
		linea.CreateElement("Cantidad").SetText(strconv.FormatInt(l.Quantity, 10))
		linea.CreateElement("ValorUnitario").SetText(l.UnitValue)
		linea.CreateElement("ValorTotal").SetText(l.TotalValue)
	}

	venta.CreateElement("Total").SetText(data.Total)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlexport: serializar venta: %w", err)
	}
	return out, nil
}
