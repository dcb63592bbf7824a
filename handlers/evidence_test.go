package handlers

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecodao-network/attester-node/claims"
	"github.com/ecodao-network/attester-node/config"
	"github.com/ecodao-network/attester-node/ocrclient"
	"github.com/ecodao-network/attester-node/signer"
	"github.com/ecodao-network/attester-node/types"
)

const testUserAddress = "0x000000000000000000000000000000000000dEaD"
const testContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

var testImage = []byte("fake image bytes")

func testSettings(ocrEndpoint string) *config.Settings {
	return &config.Settings{
		ChainID:                31337,
		OcrAPIEndpoint:         ocrEndpoint,
		OcrAPIKey:              "test-key",
		EmissionFactorKgPerKwh: 0.5,
		UnitPriceYenPerKwh:     30,
		StepLengthM:            0.7,
		CarEmissionKgPerKm:     0.2,
	}
}

func newTestHandler(t *testing.T, settings *config.Settings) (*EvidenceHandler, *signer.AttestationSigner) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	att, err := signer.New(hex.EncodeToString(crypto.FromECDSA(key)), settings.ChainID, testContract)
	require.NoError(t, err)

	return NewEvidenceHandler(settings, ocrclient.New(settings), att, nil, nil), att
}

type formOptions struct {
	fields    map[string]string
	withImage bool
}

func multipartRequest(t *testing.T, opts formOptions) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range opts.fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if opts.withImage {
		part, err := writer.CreateFormFile("evidenceImage", "bill.png")
		require.NoError(t, err)
		_, err = part.Write(testImage)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/evidence", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"daoId":        "7",
		"userAddress":  testUserAddress,
		"evidenceType": "other",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp types.ErrorResponseStruct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestEvidenceRejectsMissingImage(t *testing.T) {
	handler, _ := newTestHandler(t, testSettings(""))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, formOptions{fields: validFields()}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "必須")
}

func TestEvidenceRejectsBadDaoID(t *testing.T) {
	for _, daoID := range []string{"-1", "0", "abc", "1.5"} {
		t.Run(daoID, func(t *testing.T) {
			handler, _ := newTestHandler(t, testSettings(""))
			fields := validFields()
			fields["daoId"] = daoID

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, multipartRequest(t, formOptions{fields: fields, withImage: true}))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestEvidenceRejectsBadAddress(t *testing.T) {
	handler, _ := newTestHandler(t, testSettings(""))
	fields := validFields()
	fields["userAddress"] = "not-an-address"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, formOptions{fields: fields, withImage: true}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "userAddress")
}

func TestEvidenceRejectsWrongMethod(t *testing.T) {
	handler, _ := newTestHandler(t, testSettings(""))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/evidence", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEvidenceSelfReportedFlow(t *testing.T) {
	// OCR unconfigured: the self-reported figure must carry the claim
	handler, att := newTestHandler(t, testSettings(""))
	fields := validFields()
	fields["estimatedKg"] = "3.4"
	fields["period"] = "2026年7月"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, formOptions{fields: fields, withImage: true}))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.EvidenceVerificationResultStruct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "approved", resp.Status)
	assert.NotEmpty(t, resp.EvidenceID)
	assert.Equal(t, int64(3400), resp.AmountGrams)
	assert.Equal(t, 3.4, resp.AmountKg)
	assert.Contains(t, resp.Reason, "自己申告")
	assert.Contains(t, resp.Reason, "対象期間: 2026年7月")

	assert.Equal(t, testUserAddress, resp.Claim.User)
	assert.Equal(t, uint64(7), resp.Claim.DaoID)
	assert.Equal(t, int64(3400), resp.Claim.Amount)
	assert.Equal(t, claims.EvidenceHash(testImage), resp.Claim.EvidenceHash)
	assert.Greater(t, resp.Claim.ExpiresAt, int64(0))

	recovered, err := att.RecoverSigner(&resp.Claim, resp.Signature)
	require.NoError(t, err)
	assert.Equal(t, att.Attester(), recovered)
}

func TestEvidenceElectricityFlow(t *testing.T) {
	ocrServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ParsedResults":[{"ParsedText":"ご使用量 350 kWh\n合計 9000円"}]}`))
	}))
	defer ocrServer.Close()

	handler, _ := newTestHandler(t, testSettings(ocrServer.URL))
	fields := validFields()
	fields["evidenceType"] = "electricity"
	fields["estimatedKg"] = "3.4" // must lose to the OCR estimate

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, formOptions{fields: fields, withImage: true}))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.EvidenceVerificationResultStruct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, int64(175000), resp.AmountGrams)
	assert.Equal(t, 175.0, resp.AmountKg)
	assert.Contains(t, resp.Reason, "350.0 kWh")
}

func TestEvidenceFallbackWhenOcrUnreachable(t *testing.T) {
	settings := testSettings("http://127.0.0.1:1")
	handler, _ := newTestHandler(t, settings)
	fields := validFields()
	fields["evidenceType"] = "solar"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, formOptions{fields: fields, withImage: true}))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.EvidenceVerificationResultStruct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, int64(2000), resp.AmountGrams)
	assert.Contains(t, resp.Reason, "太陽光発電")
}

func TestEvidenceSignerNotConfigured(t *testing.T) {
	settings := testSettings("")
	_, signerErr := signer.New("", settings.ChainID, "")
	require.Error(t, signerErr)

	handler := NewEvidenceHandler(settings, ocrclient.New(settings), nil, signerErr, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, formOptions{fields: validFields(), withImage: true}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec), "ATTESTER_PRIVATE_KEY")
}

func TestEvidenceUnknownCategoryFallsBack(t *testing.T) {
	handler, _ := newTestHandler(t, testSettings(""))
	fields := validFields()
	fields["evidenceType"] = "something-new"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, formOptions{fields: fields, withImage: true}))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.EvidenceVerificationResultStruct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1000), resp.AmountGrams)
}
