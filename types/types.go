package types

// EvidenceCategory is the closed set of proof kinds a submission can carry.
type EvidenceCategory string

const (
	CategoryElectricity    EvidenceCategory = "electricity"
	CategoryTransportation EvidenceCategory = "transportation"
	CategorySolar          EvidenceCategory = "solar"
	CategoryOther          EvidenceCategory = "other"
)

// ParseEvidenceCategory maps an inbound form value onto the closed set. Anything
// unrecognized becomes CategoryOther, which carries no estimator.
func ParseEvidenceCategory(raw string) EvidenceCategory {
	switch EvidenceCategory(raw) {
	case CategoryElectricity, CategoryTransportation, CategorySolar:
		return EvidenceCategory(raw)
	default:
		return CategoryOther
	}
}

// EvidenceSubmission is the validated inbound request, one per call. Not persisted.
type EvidenceSubmission struct {
	DaoID       uint64
	UserAddress string
	Category    EvidenceCategory
	Period      string
	EstimatedKg float64 // 0 means no usable self-report
	Image       []byte
	ContentType string
}

// EstimationResult is the resolved CO2 mass for one submission. AmountGrams is the
// floor-truncated gram figure; AmountKg is always AmountGrams / 1000 so the two
// cannot disagree after truncation.
type EstimationResult struct {
	AmountGrams int64   `json:"amountGrams"`
	AmountKg    float64 `json:"amountKg"`
	Reason      string  `json:"reason"`
}

// ReductionClaim is the unit that crosses the trust boundary into the contract.
// Field order and types mirror the contract's Claim struct:
// (address, uint256, uint256, bytes32, uint256, uint256).
type ReductionClaim struct {
	User         string `json:"user"`
	DaoID        uint64 `json:"daoId"`
	Amount       int64  `json:"amount"`
	EvidenceHash string `json:"evidenceHash"`
	Nonce        uint64 `json:"nonce"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// SignedClaim pairs a claim with its EIP-712 attestation signature.
type SignedClaim struct {
	Claim     ReductionClaim `json:"claim"`
	Signature string         `json:"signature"`
}

// EvidenceVerificationResultStruct is the success response of POST /api/evidence.
type EvidenceVerificationResultStruct struct {
	EvidenceID  string         `json:"evidenceId"`
	Status      string         `json:"status"`
	AmountGrams int64          `json:"amountGrams"`
	AmountKg    float64        `json:"amountKg"`
	Reason      string         `json:"reason"`
	Claim       ReductionClaim `json:"claim"`
	Signature   string         `json:"signature"`
}

// ErrorResponseStruct is the error envelope for every non-2xx response.
type ErrorResponseStruct struct {
	Error string `json:"error"`
}

// OcrResponseStruct is the untrusted shape returned by the OCR service. Either
// ParsedResults[0].ParsedText or the top-level text field may carry the result;
// any mismatch collapses to "no text".
type OcrResponseStruct struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	Text string `json:"text"`
}

// SubDAOStruct mirrors the contract's SubDAO record. Amounts are grams.
type SubDAOStruct struct {
	TokenID             uint64 `json:"tokenId"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	TargetAmount        uint64 `json:"targetAmount"`
	CurrentAmount       uint64 `json:"currentAmount"`
	UncompletedImageURI string `json:"uncompletedImageURI"`
	CompletedImageURI   string `json:"completedImageURI"`
	IsCompleted         bool   `json:"isCompleted"`
	ParentID            uint64 `json:"parentId"`
	Admin               string `json:"admin"`
}

// OcrDiagnosticStruct is the operability record written per processed submission.
// Never read back in the decision path; no claim or signature material is stored.
type OcrDiagnosticStruct struct {
	EvidenceID   string `json:"evidenceId"`
	EvidenceHash string `json:"evidenceHash"`
	Category     string `json:"category"`
	TextLength   int    `json:"textLength"`
	TextPreview  string `json:"textPreview"`
	Reason       string `json:"reason"`
	AmountGrams  int64  `json:"amountGrams"`
	CreatedAt    int64  `json:"createdAt"`
}

// PinataResponseStruct is the subset of Pinata's pinFileToIPFS response we consume.
type PinataResponseStruct struct {
	IpfsHash string `json:"IpfsHash"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

// StorageUploadResponseStruct is the success response of POST /api/storage.
type StorageUploadResponseStruct struct {
	URI string `json:"uri"`
}
