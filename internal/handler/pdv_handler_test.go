package handler

import (
	"net/http"
	"testing"
)

func TestScanEndpoint(t *testing.T) {
	db := setupHandlerDB(t)
	app := newTestApp(db)
	seedHandlerProduct(t, db, "Soda", 10, 5, "7891234500017")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/pdv/scan", map[string]string{
		"barcode": "7891234500017",
	})
	if status != 200 {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if body["ok"] != true {
		t.Errorf("ok = %v, want true", body["ok"])
	}
	if body["product"] != "Soda" {
		t.Errorf("product = %v, want Soda", body["product"])
	}
	if body["quantity"] != float64(1) {
		t.Errorf("quantity = %v, want 1", body["quantity"])
	}
	if body["total"] != "10" {
		t.Errorf("total = %v, want 10", body["total"])
	}
}

func TestScanEndpointQueryFallback(t *testing.T) {
	db := setupHandlerDB(t)
	app := newTestApp(db)
	seedHandlerProduct(t, db, "Soda", 10, 5, "7891234500017")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/pdv/scan?barcode=7891234500017", map[string]string{})
	if status != 200 {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if body["product"] != "Soda" {
		t.Errorf("product = %v, want Soda", body["product"])
	}
}

func TestScanEndpointUnknownBarcode(t *testing.T) {
	db := setupHandlerDB(t)
	app := newTestApp(db)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/pdv/scan", map[string]string{
		"barcode": "0000000000000",
	})
	if status != 404 {
		t.Fatalf("status = %d, want 404", status)
	}
	if body["ok"] != false {
		t.Errorf("ok = %v, want false", body["ok"])
	}
}

func TestScanEndpointMissingBarcode(t *testing.T) {
	db := setupHandlerDB(t)
	app := newTestApp(db)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/pdv/scan", map[string]string{})
	if status != 400 {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestScanEndpointOutOfStock(t *testing.T) {
	db := setupHandlerDB(t)
	app := newTestApp(db)
	seedHandlerProduct(t, db, "Gum", 2, 1, "7891234500024")

	if status, body := doJSON(t, app, http.MethodPost, "/api/v1/pdv/scan", map[string]string{"barcode": "7891234500024"}); status != 200 {
		t.Fatalf("first scan status = %d, body = %v", status, body)
	}
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/pdv/scan", map[string]string{"barcode": "7891234500024"})
	if status != 422 {
		t.Fatalf("second scan status = %d, want 422", status)
	}
	if body["ok"] != false {
		t.Errorf("ok = %v, want false", body["ok"])
	}
}

func TestCurrentSaleAndFinishEndpoints(t *testing.T) {
	db := setupHandlerDB(t)
	app := newTestApp(db)
	seedHandlerProduct(t, db, "Soda", 10, 5, "7891234500017")

	if status, _ := doJSON(t, app, http.MethodGet, "/api/v1/pdv/sale", nil); status != 404 {
		t.Errorf("sale before scan status = %d, want 404", status)
	}

	if status, body := doJSON(t, app, http.MethodPost, "/api/v1/pdv/scan", map[string]string{"barcode": "7891234500017"}); status != 200 {
		t.Fatalf("scan status = %d, body = %v", status, body)
	}

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/pdv/sale", nil)
	if status != 200 {
		t.Fatalf("sale status = %d, body = %v", status, body)
	}
	sale := body["sale"].(map[string]interface{})
	if sale["payment_method"] != "open" {
		t.Errorf("payment_method = %v, want open", sale["payment_method"])
	}

	if status, _ := doJSON(t, app, http.MethodPost, "/api/v1/pdv/finish", nil); status != 200 {
		t.Errorf("finish status = %d, want 200", status)
	}
	if status, _ := doJSON(t, app, http.MethodGet, "/api/v1/pdv/sale", nil); status != 404 {
		t.Errorf("sale after finish status = %d, want 404", status)
	}
}
