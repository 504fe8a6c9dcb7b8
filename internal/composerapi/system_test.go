package composerapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func validSystemRequest() *SystemRequest {
	return &SystemRequest{
		Arch:     "aarch64",
		PaddrTop: 0x60000000,
		MemoryRegions: []MemoryRegionRequest{
			{Name: "uart_regs", Size: 0x1000},
		},
		ProtectionDomains: []ProtectionDomainRequest{
			{
				Name:         "driver",
				ProgramImage: "driver.elf",
				Maps: []MapRequest{
					{MemoryRegion: "uart_regs", Vaddr: 0x4000000, Perms: "rw"},
				},
			},
			{
				Name:         "client",
				ProgramImage: "client.elf",
			},
		},
		Channels: []ChannelRequest{
			{
				A: ChannelEndRequest{ProtectionDomain: "driver", Notify: true},
				B: ChannelEndRequest{ProtectionDomain: "client", Notify: true},
			},
		},
	}
}

func TestSystem_Compose(t *testing.T) {
	t.Parallel()

	router := setupTestRouter()
	apiGroup := router.Group("/api")
	NewSystem().RegisterRoutes(apiGroup)

	body, err := json.Marshal(validSystemRequest())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/system/compose", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.XML, "<system>")
	assert.Contains(t, resp.XML, `protection_domain name="driver"`)
	assert.Contains(t, resp.XML, "<channel>")
}

func TestSystem_ComposeInvalidArch(t *testing.T) {
	t.Parallel()

	router := setupTestRouter()
	apiGroup := router.Group("/api")
	NewSystem().RegisterRoutes(apiGroup)

	reqBody := validSystemRequest()
	reqBody.Arch = "not-an-arch"
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/system/compose", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSystem_Validate(t *testing.T) {
	t.Parallel()

	router := setupTestRouter()
	apiGroup := router.Group("/api")
	NewSystem().RegisterRoutes(apiGroup)

	body, err := json.Marshal(validSystemRequest())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/system/validate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Error)
}

func TestSystem_ValidateCatchesUnknownMemoryRegion(t *testing.T) {
	t.Parallel()

	router := setupTestRouter()
	apiGroup := router.Group("/api")
	NewSystem().RegisterRoutes(apiGroup)

	req := &SystemRequest{
		Arch:     "aarch64",
		PaddrTop: 0x60000000,
		ProtectionDomains: []ProtectionDomainRequest{
			{Name: "driver", ProgramImage: "driver.elf"},
		},
	}
	req.ProtectionDomains[0].Maps = []MapRequest{{MemoryRegion: "missing", Vaddr: 0x1000, Perms: "rw"}}

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/api/system/validate", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Error)
}

func TestSystem_Render(t *testing.T) {
	t.Parallel()

	router := setupTestRouter()
	apiGroup := router.Group("/api")
	NewSystem().RegisterRoutes(apiGroup)

	body, err := json.Marshal(validSystemRequest())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/system/render", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.XML, "<system>")
}
