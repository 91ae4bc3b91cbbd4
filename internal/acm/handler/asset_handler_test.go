package handler

import (
	"net/http"
	"testing"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/testutil"
	"github.com/gin-gonic/gin"
)

func setupAssetRoutes(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := service.NewAssetService(repos.Asset, repos.Contract, repos.Calibration, repos.Scrap)
	h := NewAssetHandler(svc)

	r := testutil.SetupRouter()
	assets := testutil.AuthGroup(r, "/api/v1/assets")
	assets.POST("", h.Create)
	assets.GET("", h.List)
	assets.GET("/filter-options", h.FilterOptions)
	assets.GET("/:id", h.Get)
	assets.PUT("/:id", h.Update)
	return r
}

func TestAssetRoutesRequireAuth(t *testing.T) {
	r := setupAssetRoutes(t)

	w := testutil.DoRequest(r, "GET", "/api/v1/assets", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/assets", nil, "bogus-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}
}

func TestAssetCreateAndGet(t *testing.T) {
	r := setupAssetRoutes(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/v1/assets", gin.H{
		"asset_code":    "H-001",
		"asset_name":    "Compressor",
		"serial_no":     "SN-1",
		"plant":         "Plant A",
		"purchase_date": "15/06/2024",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	id := data["id"].(string)

	w = testutil.DoRequest(r, "GET", "/api/v1/assets/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}
	resp = testutil.ParseResponse(w)
	detail := resp["data"].(map[string]interface{})
	asset := detail["asset"].(map[string]interface{})
	if asset["asset_code"] != "H-001" {
		t.Errorf("asset_code = %v", asset["asset_code"])
	}

	// Missing required fields bind-fail before the service.
	w = testutil.DoRequest(r, "POST", "/api/v1/assets", gin.H{"asset_code": "H-002"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name: status = %d, want 400", w.Code)
	}

	// Duplicate code maps to 409.
	w = testutil.DoRequest(r, "POST", "/api/v1/assets", gin.H{
		"asset_code": "H-001", "asset_name": "Another",
	}, token)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate code: status = %d, want 409", w.Code)
	}

	// Unknown id maps to 404.
	w = testutil.DoRequest(r, "GET", "/api/v1/assets/no-such-id", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}
}

func TestAssetList(t *testing.T) {
	r := setupAssetRoutes(t)
	token := testutil.DefaultTestToken()

	for _, body := range []gin.H{
		{"asset_code": "L-001", "asset_name": "Boiler", "plant": "Plant A"},
		{"asset_code": "L-002", "asset_name": "Boiler Feed", "plant": "Plant B"},
		{"asset_code": "L-003", "asset_name": "Crane", "plant": "Plant A"},
	} {
		if w := testutil.DoRequest(r, "POST", "/api/v1/assets", body, token); w.Code != http.StatusCreated {
			t.Fatalf("seed: status = %d", w.Code)
		}
	}

	w := testutil.DoRequest(r, "GET", "/api/v1/assets?plant=Plant+A", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["total"].(float64) != 2 {
		t.Errorf("plant filter total = %v, want 2", data["total"])
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/assets/filter-options", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("filter-options: status = %d", w.Code)
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if len(data["plants"].([]interface{})) != 2 {
		t.Errorf("plants = %v", data["plants"])
	}
}
