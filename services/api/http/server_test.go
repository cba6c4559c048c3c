package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
	"github.com/YASHK-arch/heavy-metal-compass/services/api/config"
	"github.com/YASHK-arch/heavy-metal-compass/services/api/store"
)

const csvHeader = "latitude,longitude,sampleDate,As,Cd,Cr,Cu,Fe,Mn,Ni,Pb,Zn"

// doubledRow scores HPI 200 / PLI 2, halfRow scores HPI 50 / PLI 0.5.
const (
	doubledRow = "6.25,-75.56,2024-03-15,0.02,0.006,0.1,4,0.6,0.2,0.14,0.02,6"
	halfRow    = "4.6,-74.08,2024-04-01,0.005,0.0015,0.025,1,0.15,0.05,0.035,0.005,1.5"
	badLatRow  = "95,-74.08,2024-04-01,0.02,0.006,0.1,4,0.6,0.2,0.14,0.02,6"
)

func testConfig() config.Config {
	return config.Config{
		Port:           8080,
		MaxUploadBytes: 1 << 20,
		Workers:        2,
		TopPollutants:  2,
	}
}

func testServer() *Server {
	return New(testConfig(), store.New(), metals.Default())
}

func multipartFile(t *testing.T, filename string, contents []byte) (io.Reader, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, srv *Server, target, filename, contents string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartFile(t, filename, []byte(contents))
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	return doRequest(srv, req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthz(t *testing.T) {
	rec := doRequest(testServer(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestBatchViewsBeforeFirstUpload(t *testing.T) {
	srv := testServer()
	targets := []string{
		"/api/v1/batch",
		"/api/v1/batch/summary",
		"/api/v1/batch/distribution",
		"/api/v1/batch/metals",
		"/api/v1/batch/samples/sample_1/pollutants",
	}
	for _, target := range targets {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "no batch uploaded yet")
	}
}

func TestUploadCleanBatch(t *testing.T) {
	srv := testServer()
	csv := strings.Join([]string{csvHeader, doubledRow, halfRow}, "\n")

	rec := upload(t, srv, "/api/v1/batch", "samples.csv", csv)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Data struct {
			BatchID     string   `json:"batch_id"`
			Filename    string   `json:"filename"`
			Valid       bool     `json:"valid"`
			SampleCount int      `json:"sample_count"`
			Diagnostics []string `json:"diagnostics"`
		} `json:"data"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Data.BatchID)
	assert.Equal(t, "samples.csv", resp.Data.Filename)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.SampleCount)
	assert.Empty(t, resp.Data.Diagnostics)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var batch struct {
		Data struct {
			Report struct {
				Samples []struct {
					ID      string `json:"id"`
					Results struct {
						HPI      float64 `json:"hpi"`
						PLI      float64 `json:"pli"`
						Category string  `json:"quality_category"`
					} `json:"results"`
				} `json:"samples"`
			} `json:"report"`
		} `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	decode(t, rec, &batch)
	assert.Equal(t, 2, batch.Meta.Count)
	require.Len(t, batch.Data.Report.Samples, 2)
	assert.Equal(t, "sample_1", batch.Data.Report.Samples[0].ID)
	assert.InDelta(t, 200.0, batch.Data.Report.Samples[0].Results.HPI, 1e-9)
	assert.Equal(t, "unsuitable", batch.Data.Report.Samples[0].Results.Category)
	assert.Equal(t, "moderate", batch.Data.Report.Samples[1].Results.Category)
}

func TestUploadRejectsBatchWithDiagnostics(t *testing.T) {
	srv := testServer()
	csv := strings.Join([]string{csvHeader, doubledRow, badLatRow}, "\n")

	rec := upload(t, srv, "/api/v1/batch", "samples.csv", csv)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Error       string   `json:"error"`
		Diagnostics []string `json:"diagnostics"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "upload rejected", resp.Error)
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, "row 2: latitude must be a number between -90 and 90", resp.Diagnostics[0])

	// The rejected upload must not become the current batch.
	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadPartialKeepsValidRows(t *testing.T) {
	srv := testServer()
	csv := strings.Join([]string{csvHeader, doubledRow, badLatRow}, "\n")

	rec := upload(t, srv, "/api/v1/batch?partial=true", "samples.csv", csv)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Data struct {
			Valid       bool     `json:"valid"`
			SampleCount int      `json:"sample_count"`
			Diagnostics []string `json:"diagnostics"`
		} `json:"data"`
	}
	decode(t, rec, &resp)
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.SampleCount)
	assert.NotEmpty(t, resp.Data.Diagnostics)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch/summary", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadPartialWithNothingValid(t *testing.T) {
	srv := testServer()
	csv := strings.Join([]string{csvHeader, badLatRow}, "\n")

	rec := upload(t, srv, "/api/v1/batch?partial=true", "samples.csv", csv)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch/summary", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no computed samples")
}

func TestUploadValidationErrors(t *testing.T) {
	srv := testServer()

	// No multipart file field at all.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch", strings.NewReader("plain"))
	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unsupported extension.
	rec = upload(t, srv, "/api/v1/batch", "samples.txt", "latitude\n1\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported file type")

	// Unparseable partial flag.
	rec = upload(t, srv, "/api/v1/batch?partial=maybe", "samples.csv", csvHeader)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid partial parameter")
}

func TestUploadBodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 64
	srv := New(cfg, store.New(), metals.Default())
	csv := strings.Join([]string{csvHeader, doubledRow, halfRow}, "\n")

	rec := upload(t, srv, "/api/v1/batch", "samples.csv", csv)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadReplacesPreviousBatch(t *testing.T) {
	srv := testServer()

	rec := upload(t, srv, "/api/v1/batch", "first.csv", strings.Join([]string{csvHeader, doubledRow}, "\n"))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = upload(t, srv, "/api/v1/batch", "second.csv", strings.Join([]string{csvHeader, halfRow}, "\n"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Filename string `json:"filename"`
		} `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "second.csv", resp.Data.Filename)
	assert.Equal(t, 1, resp.Meta.Count)
}

func TestBatchSummaryView(t *testing.T) {
	srv := testServer()
	csv := strings.Join([]string{csvHeader, doubledRow, halfRow}, "\n")
	require.Equal(t, http.StatusCreated, upload(t, srv, "/api/v1/batch", "samples.csv", csv).Code)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			HPI struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
				Avg float64 `json:"avg"`
			} `json:"hpi"`
			PLI struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
				Avg float64 `json:"avg"`
			} `json:"pli"`
		} `json:"data"`
	}
	decode(t, rec, &resp)
	assert.InDelta(t, 50.0, resp.Data.HPI.Min, 1e-9)
	assert.InDelta(t, 200.0, resp.Data.HPI.Max, 1e-9)
	assert.InDelta(t, 125.0, resp.Data.HPI.Avg, 1e-9)
	assert.InDelta(t, 0.5, resp.Data.PLI.Min, 1e-9)
	assert.InDelta(t, 2.0, resp.Data.PLI.Max, 1e-9)
	assert.InDelta(t, 1.25, resp.Data.PLI.Avg, 1e-9)
}

func TestBatchDistributionView(t *testing.T) {
	srv := testServer()
	csv := strings.Join([]string{csvHeader, doubledRow, halfRow, halfRow}, "\n")
	require.Equal(t, http.StatusCreated, upload(t, srv, "/api/v1/batch", "samples.csv", csv).Code)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch/distribution", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []struct {
			Category   string  `json:"category"`
			Count      int     `json:"count"`
			Percentage float64 `json:"percentage"`
		} `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 2, resp.Meta.Count)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "unsuitable", resp.Data[0].Category)
	assert.Equal(t, 1, resp.Data[0].Count)
	assert.InDelta(t, 33.3, resp.Data[0].Percentage, 1e-9)
	assert.Equal(t, "moderate", resp.Data[1].Category)
	assert.Equal(t, 2, resp.Data[1].Count)
	assert.InDelta(t, 66.7, resp.Data[1].Percentage, 1e-9)
}

func TestBatchMetalsView(t *testing.T) {
	srv := testServer()
	csv := strings.Join([]string{csvHeader, doubledRow, halfRow}, "\n")
	require.Equal(t, http.StatusCreated, upload(t, srv, "/api/v1/batch", "samples.csv", csv).Code)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch/metals", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data map[string]float64 `json:"data"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Data, 9)
	assert.InDelta(t, 0.0125, resp.Data["As"], 1e-9)
	assert.InDelta(t, 3.75, resp.Data["Zn"], 1e-9)
}

func TestSamplePollutants(t *testing.T) {
	srv := testServer()
	csv := strings.Join([]string{csvHeader, doubledRow}, "\n")
	require.Equal(t, http.StatusCreated, upload(t, srv, "/api/v1/batch", "samples.csv", csv).Code)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch/samples/sample_1/pollutants", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			SampleID   string   `json:"sample_id"`
			Pollutants []string `json:"pollutants"`
		} `json:"data"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "sample_1", resp.Data.SampleID)
	assert.Equal(t, []string{"Zn", "Cu"}, resp.Data.Pollutants)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch/samples/sample_1/pollutants?k=4", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.Equal(t, []string{"Zn", "Cu", "Fe", "Mn"}, resp.Data.Pollutants)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch/samples/sample_1/pollutants?k=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/batch/samples/sample_99/pollutants", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "sample not found")
}

func TestUploadXLSX(t *testing.T) {
	srv := testServer()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := strings.Split(csvHeader, ",")
	cells := make([]interface{}, len(header))
	for i, col := range header {
		cells[i] = col
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &cells))
	row := strings.Split(doubledRow, ",")
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &values))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rec := upload(t, srv, "/api/v1/batch", "samples.xlsx", buf.String())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Data struct {
			Valid       bool `json:"valid"`
			SampleCount int  `json:"sample_count"`
		} `json:"data"`
	}
	decode(t, rec, &resp)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.SampleCount)
}

func TestReferenceStandards(t *testing.T) {
	rec := doRequest(testServer(), httptest.NewRequest(http.MethodGet, "/api/v1/reference/standards", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data map[string]struct {
			Limit  float64 `json:"limit"`
			Weight float64 `json:"weight"`
		} `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 9, resp.Meta.Count)
	assert.Equal(t, 0.01, resp.Data["As"].Limit)
	assert.Equal(t, 1.0, resp.Data["As"].Weight)
}

func TestBearerAuth(t *testing.T) {
	cfg := testConfig()
	cfg.BearerToken = "sekret"
	srv := New(cfg, store.New(), metals.Default())

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, doRequest(srv, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	assert.Equal(t, http.StatusOK, doRequest(srv, req).Code)
}

func TestVersionAndRequestIDHeaders(t *testing.T) {
	srv := testServer()

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/reference/standards", nil))
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reference/standards", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = doRequest(srv, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/batch", nil)
	rec := doRequest(srv, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
