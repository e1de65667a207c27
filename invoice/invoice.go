package invoice

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"

	"zaika/db"
	"zaika/middleware"
	"zaika/models"
)

func hmacSecret() []byte {
	if s := os.Getenv("INVOICE_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-invoice-secret")
}

// signPayload returns the QR payload: orderID|total|timestamp|signature.
// The signature lets a returns desk verify an invoice offline.
func signPayload(orderID string, total float64) string {
	data := fmt.Sprintf("%s|%.2f|%d", orderID, total, time.Now().Unix())
	h := hmac.New(sha256.New, hmacSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintInvoice renders a PDF invoice for one of the caller's orders. The
// amounts printed are the stored snapshot, replayed verbatim.
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")

	tokenString := r.Header.Get("Authorization")
	claims, err := middleware.ValidateJWT(tokenString)
	if err != nil {
		log.Printf("JWT validation error: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var order models.Order
	err = db.OrderCollection.FindOne(context.TODO(), bson.M{
		"orderId": orderID,
		"userId":  claims.UserID,
	}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	qrPNG, err := qrcode.Encode(signPayload(order.OrderID, order.Total), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Tax Invoice")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 7, fmt.Sprintf(
		"Order: %s\nCustomer: %s\nPlaced: %s\nShip to: %s, %s, %s %s, %s",
		order.OrderID,
		claims.Username,
		order.CreatedAt.Format("02 Jan 2006 15:04"),
		order.Address.Street,
		order.Address.City,
		order.Address.State,
		order.Address.PostalCode,
		order.Address.Country,
	), "", "L", false)
	pdf.Ln(4)

	// Line table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Pack", "1", 0, "C", false, 0, "")
	pdf.CellFormat(15, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Base", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 8, "Disc", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Price", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, l := range order.Lines {
		pdf.CellFormat(70, 8, l.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d kg", l.WeightKg), "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 8, fmt.Sprintf("%d", l.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", l.BasePrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%.0f%%", l.DiscountFraction*100), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", l.FinalPrice), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Subtotal: %.2f", order.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Bulk discount: -%.2f", order.WeightDiscountTotal), "", 1, "R", false, 0, "")
	if order.DiscountCode != "" {
		pdf.CellFormat(0, 7, fmt.Sprintf("Code %s: -%.2f", order.DiscountCode, order.CodeDiscountAmount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 9, fmt.Sprintf("Total: %.2f", order.Total), "T", 1, "R", false, 0, "")

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 240, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
