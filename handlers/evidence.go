package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/ecodao-network/attester-node/claims"
	"github.com/ecodao-network/attester-node/common"
	"github.com/ecodao-network/attester-node/common/logs"
	"github.com/ecodao-network/attester-node/config"
	"github.com/ecodao-network/attester-node/estimator"
	"github.com/ecodao-network/attester-node/ocrclient"
	"github.com/ecodao-network/attester-node/signer"
	"github.com/ecodao-network/attester-node/types"
)

// EvidenceHandler drives the submission pipeline: validate, hash, OCR, estimate,
// build claim, sign, respond. Single-shot and stateless per request; no step is
// retried.
type EvidenceHandler struct {
	factors   estimator.Factors
	ocr       *ocrclient.Client
	signer    *signer.AttestationSigner
	signerErr error
	ocrDb     *leveldb.DB
}

// NewEvidenceHandler wires the pipeline. A nil attestation signer is tolerated so
// validation errors still answer correctly on a misconfigured deployment; signing
// then fails per request with the configuration error.
func NewEvidenceHandler(settings *config.Settings, ocr *ocrclient.Client, att *signer.AttestationSigner, signerErr error, ocrDb *leveldb.DB) *EvidenceHandler {
	if att == nil && signerErr == nil {
		signerErr = signer.ErrNotConfigured
	}
	return &EvidenceHandler{
		factors:   estimator.FactorsFromSettings(settings),
		ocr:       ocr,
		signer:    att,
		signerErr: signerErr,
		ocrDb:     ocrDb,
	}
}

func (h *EvidenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, common.MaxEvidenceImageBytes)

	submission, errMessage := parseSubmission(r)
	if errMessage != "" {
		writeError(w, http.StatusBadRequest, errMessage)
		return
	}

	evidenceHash := claims.EvidenceHash(submission.Image)

	ocrText := h.ocr.ExtractText(r.Context(), submission.Image, submission.ContentType)
	logs.Log.Info(fmt.Sprintf("Processed OCR for dao %d, text length %d", submission.DaoID, len(ocrText)))

	result := estimator.Resolve(submission, ocrText, h.factors)

	reason := result.Reason
	if submission.Period != "" {
		reason += "\n対象期間: " + submission.Period
	}

	evidenceID := claims.NewEvidenceID()
	h.storeDiagnostic(evidenceID, evidenceHash, submission, ocrText, result)

	claim, err := claims.Build(submission.UserAddress, submission.DaoID, result.AmountGrams, evidenceHash)
	if err != nil {
		logs.Log.Error(fmt.Sprintf("Error building claim : %s", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.signer == nil {
		logs.Log.Error(fmt.Sprintf("Attestation signer unavailable : %s", h.signerErr.Error()))
		writeError(w, http.StatusInternalServerError, h.signerErr.Error())
		return
	}

	signed, err := h.signer.Attest(&claim)
	if err != nil {
		logs.Log.Error(fmt.Sprintf("Error signing claim : %s", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, types.EvidenceVerificationResultStruct{
		EvidenceID:  evidenceID,
		Status:      "approved",
		AmountGrams: result.AmountGrams,
		AmountKg:    result.AmountKg,
		Reason:      reason,
		Claim:       signed.Claim,
		Signature:   signed.Signature,
	})
}

// parseSubmission validates the multipart form into an EvidenceSubmission.
// Returns a non-empty message on any client-caused validation failure.
func parseSubmission(r *http.Request) (*types.EvidenceSubmission, string) {
	if err := r.ParseMultipartForm(common.MaxEvidenceImageBytes); err != nil {
		return nil, "daoId, userAddress, evidenceImage は必須です。フォーム入力を確認してください。"
	}

	daoIDRaw := r.FormValue("daoId")
	userAddress := r.FormValue("userAddress")

	file, header, err := r.FormFile("evidenceImage")
	if daoIDRaw == "" || userAddress == "" || err != nil {
		return nil, "daoId, userAddress, evidenceImage は必須です。フォーム入力を確認してください。"
	}
	defer file.Close()

	daoID, err := strconv.ParseUint(daoIDRaw, 10, 64)
	if err != nil || daoID == 0 {
		return nil, "daoId が不正です。"
	}

	if !ethcommon.IsHexAddress(userAddress) {
		return nil, "userAddress が有効なアドレスではありません。"
	}

	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		return nil, "evidenceImage の形式が不正です。"
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	estimatedKg := 0.0
	if raw := strings.TrimSpace(r.FormValue("estimatedKg")); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			estimatedKg = parsed
		}
	}

	return &types.EvidenceSubmission{
		DaoID:       daoID,
		UserAddress: userAddress,
		Category:    types.ParseEvidenceCategory(r.FormValue("evidenceType")),
		Period:      r.FormValue("period"),
		EstimatedKg: estimatedKg,
		Image:       image,
		ContentType: contentType,
	}, ""
}

// storeDiagnostic persists the operability record. Best effort: a failed write is
// logged and never fails the request.
func (h *EvidenceHandler) storeDiagnostic(evidenceID, evidenceHash string, sub *types.EvidenceSubmission, ocrText string, result types.EstimationResult) {
	if h.ocrDb == nil {
		return
	}

	preview := ocrText
	if runes := []rune(ocrText); len(runes) > 200 {
		preview = string(runes[:200])
	}

	record, err := json.Marshal(types.OcrDiagnosticStruct{
		EvidenceID:   evidenceID,
		EvidenceHash: evidenceHash,
		Category:     string(sub.Category),
		TextLength:   len(ocrText),
		TextPreview:  preview,
		Reason:       result.Reason,
		AmountGrams:  result.AmountGrams,
		CreatedAt:    time.Now().Unix(),
	})
	if err != nil {
		logs.Log.Warn(fmt.Sprintf("Error marshalling diagnostic record : %s", err.Error()))
		return
	}

	key := fmt.Sprintf("ocr_%s", evidenceID)
	if err := h.ocrDb.Put([]byte(key), record, nil); err != nil {
		logs.Log.Warn(fmt.Sprintf("Error saving diagnostic record : %s", err.Error()))
	}
}
