package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ecodao-network/attester-node/common/logs"
	"github.com/ecodao-network/attester-node/daoclient"
)

// DAOHandler serves SubDAO records for the dashboard cards.
type DAOHandler struct {
	client    *daoclient.Client
	clientErr error
}

func NewDAOHandler(client *daoclient.Client, clientErr error) *DAOHandler {
	if client == nil && clientErr == nil {
		clientErr = errors.New("dao client is not configured")
	}
	return &DAOHandler{client: client, clientErr: clientErr}
}

func (h *DAOHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.client == nil {
		logs.Log.Error(fmt.Sprintf("DAO client unavailable : %s", h.clientErr.Error()))
		writeError(w, http.StatusInternalServerError, h.clientErr.Error())
		return
	}

	idRaw := r.URL.Query().Get("id")
	if idRaw == "" {
		daos, err := h.client.ListDAOs(r.Context())
		if err != nil {
			logs.Log.Error(fmt.Sprintf("Error listing daos : %s", err.Error()))
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, daos)
		return
	}

	id, err := strconv.ParseUint(idRaw, 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "id が不正です。")
		return
	}

	dao, err := h.client.GetDAO(r.Context(), id)
	if err != nil {
		logs.Log.Error(fmt.Sprintf("Error reading dao %d : %s", id, err.Error()))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dao)
}
