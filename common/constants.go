package common

import "time"

// EIP-712 signing domain, shared with the EcoDAO contract.
const SigningDomainName = "EcoDAO"
const SigningDomainVersion = "1"

const DefaultChainID = 31337
const DefaultExecutionClientRPC = "http://localhost:8545/"

// Estimation factors. Overridable via environment, see config.
const DefaultEmissionFactorKgPerKwh = 0.5
const DefaultUnitPriceYenPerKwh = 30.0
const DefaultStepLengthM = 0.7
const DefaultCarEmissionKgPerKm = 0.2

// Heuristic masses (kg) assumed when OCR parsing fails and no self-report is given.
const FallbackElectricityKg = 2.0
const FallbackTransportationKg = 1.5
const FallbackSolarKg = 2.0
const FallbackOtherKg = 1.0

const ClaimValidityWindow = 30 * 24 * time.Hour
const ClaimNonceBytes = 4

const MaxEvidenceImageBytes = 16 << 20

const PinataPinFileRPC = "https://api.pinata.cloud/pinning/pinFileToIPFS"
const DefaultPinataGateway = "https://gateway.pinata.cloud/ipfs/"

const DefaultDbPath = "data/leveldb"
const DefaultDaoCacheTTLSeconds = 30
