package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/ecodao-network/attester-node/common"
	"github.com/ecodao-network/attester-node/common/logs"
	"github.com/ecodao-network/attester-node/ipfs"
	"github.com/ecodao-network/attester-node/types"
)

// StorageHandler pins DAO card images through Pinata.
type StorageHandler struct {
	pinata *ipfs.PinataClient
}

func NewStorageHandler(pinata *ipfs.PinataClient) *StorageHandler {
	return &StorageHandler{pinata: pinata}
}

func (h *StorageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, common.MaxEvidenceImageBytes)

	if err := r.ParseMultipartForm(common.MaxEvidenceImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file は必須です。フォーム入力を確認してください。")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file は必須です。フォーム入力を確認してください。")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		writeError(w, http.StatusBadRequest, "file の形式が不正です。")
		return
	}

	uri, err := h.pinata.PinFile(r.Context(), header.Filename, data)
	if err != nil {
		logs.Log.Error(fmt.Sprintf("Error pinning file : %s", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, types.StorageUploadResponseStruct{URI: uri})
}
