package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "acm-test-jwt-secret"

// TestEnv holds test environment resources.
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens an isolated in-memory database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Asset{},
		&entity.Contract{},
		&entity.ContractEvent{},
		&entity.ContractDocument{},
		&entity.CalibrationRecord{},
		&entity.CalibrationEvent{},
		&entity.CalibrationDocument{},
		&entity.ScrapRecord{},
		&entity.ReminderAck{},
		&entity.ImportBatch{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group guarded by the JWT middleware.
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid access token for tests.
func GenerateTestToken(userID, name, role string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"uid":  userID,
		"name": name,
		"role": role,
		"iss":  "acm",
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
		"jti":  fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a developer test account.
func DefaultTestToken() string {
	return GenerateTestToken("test-user-001", "Test Developer", entity.RoleDeveloper)
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response envelope into a map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedAsset creates one active asset.
func SeedAsset(t *testing.T, db *gorm.DB, id, code, name string) *entity.Asset {
	t.Helper()
	asset := &entity.Asset{
		ID:        id,
		AssetCode: code,
		AssetName: name,
		Status:    entity.AssetStatusActive,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("Failed to seed asset: %v", err)
	}
	return asset
}

// SeedContract creates one open contract on the asset.
func SeedContract(t *testing.T, db *gorm.DB, id, assetID string, start, end time.Time) *entity.Contract {
	t.Helper()
	contract := &entity.Contract{
		ID:        id,
		AssetID:   assetID,
		Vendor:    "Test Vendor",
		StartDate: start,
		EndDate:   end,
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("Failed to seed contract: %v", err)
	}
	return contract
}

// SeedCalibration creates one calibration record on the asset.
func SeedCalibration(t *testing.T, db *gorm.DB, id, assetID string, done, due time.Time) *entity.CalibrationRecord {
	t.Helper()
	record := &entity.CalibrationRecord{
		ID:                  id,
		AssetID:             assetID,
		CalibrationDoneDate: done,
		NextDueDate:         due,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("Failed to seed calibration: %v", err)
	}
	return record
}
