package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gadgetry.org/internal/auth"
	"gadgetry.org/internal/gadget"
	"gadgetry.org/internal/ids"
	"gadgetry.org/internal/obs"
)

type gadgetResponse struct {
	Message string        `json:"message"`
	Gadget  gadget.Gadget `json:"gadget"`
}

type selfDestructResponse struct {
	Message          string        `json:"message"`
	ConfirmationCode string        `json:"confirmationCode"`
	Gadget           gadget.Gadget `json:"gadget"`
}

func (a *API) handleGadgetsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listGadgets(w, r)
	case http.MethodPost:
		if !a.ensureRole(w, r, auth.RoleAdmin) {
			return
		}
		a.createGadget(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleGadgetResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/gadgets/"), "/")
	parts := strings.Split(path, "/")
	if path == "" || len(parts) > 2 || (len(parts) == 2 && parts[1] != "self-destruct") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id := parts[0]

	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		if !a.ensureRole(w, r, auth.RoleAdmin) {
			return
		}
		a.selfDestruct(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		if !a.ensureRole(w, r, auth.RoleAdmin) {
			return
		}
		a.updateGadget(w, r, id)
	case http.MethodDelete:
		if !a.ensureRole(w, r, auth.RoleAdmin) {
			return
		}
		a.decommissionGadget(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) listGadgets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := gadget.ParseFilter(q.Get("status"), q.Get("minSuccessProbability"), q.Get("maxSuccessProbability"), q.Get("name"))
	if err != nil {
		obs.ObserveGadgetOp("list", "rejected")
		handleGadgetError(w, r, err)
		return
	}
	items, err := a.gadgets.List(r.Context(), f)
	if err != nil {
		obs.ObserveGadgetOp("list", "error")
		handleGadgetError(w, r, err)
		return
	}
	obs.ObserveGadgetOp("list", "ok")
	writeJSON(w, http.StatusOK, items)
}

func (a *API) createGadget(w http.ResponseWriter, r *http.Request) {
	g, err := a.gadgets.Create(r.Context())
	if err != nil {
		obs.ObserveGadgetOp("create", "error")
		handleGadgetError(w, r, err)
		return
	}
	obs.ObserveGadgetOp("create", "ok")
	w.Header().Set("Location", "/gadgets/"+g.ID)
	writeJSON(w, http.StatusCreated, gadgetResponse{
		Message: "Gadget added successfully",
		Gadget:  g,
	})
}

func (a *API) updateGadget(w http.ResponseWriter, r *http.Request, id string) {
	var body map[string]json.RawMessage
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	patch, err := gadget.ParsePatch(body)
	if err != nil {
		obs.ObserveGadgetOp("update", "rejected")
		handleGadgetError(w, r, err)
		return
	}
	if !ids.Valid(id) {
		obs.ObserveGadgetOp("update", "not_found")
		handleGadgetError(w, r, gadget.ErrNotFound)
		return
	}
	g, err := a.gadgets.Update(r.Context(), id, patch)
	if err != nil {
		obs.ObserveGadgetOp("update", outcome(err))
		handleGadgetError(w, r, err)
		return
	}
	obs.ObserveGadgetOp("update", "ok")
	writeJSON(w, http.StatusOK, gadgetResponse{
		Message: "Gadget updated successfully",
		Gadget:  g,
	})
}

func (a *API) decommissionGadget(w http.ResponseWriter, r *http.Request, id string) {
	if !ids.Valid(id) {
		obs.ObserveGadgetOp("decommission", "not_found")
		handleGadgetError(w, r, gadget.ErrNotFound)
		return
	}
	g, err := a.gadgets.Decommission(r.Context(), id)
	if err != nil {
		obs.ObserveGadgetOp("decommission", outcome(err))
		handleGadgetError(w, r, err)
		return
	}
	obs.ObserveGadgetOp("decommission", "ok")
	writeJSON(w, http.StatusOK, gadgetResponse{
		Message: "Gadget decommissioned successfully",
		Gadget:  g,
	})
}

func (a *API) selfDestruct(w http.ResponseWriter, r *http.Request, id string) {
	if !ids.Valid(id) {
		obs.ObserveGadgetOp("self_destruct", "not_found")
		handleGadgetError(w, r, gadget.ErrNotFound)
		return
	}
	res, err := a.gadgets.SelfDestruct(r.Context(), id)
	if err != nil {
		obs.ObserveGadgetOp("self_destruct", outcome(err))
		handleGadgetError(w, r, err)
		return
	}
	obs.ObserveGadgetOp("self_destruct", "ok")
	writeJSON(w, http.StatusOK, selfDestructResponse{
		Message:          "Self-destruct initiated",
		ConfirmationCode: res.ConfirmationCode,
		Gadget:           res.Gadget,
	})
}

func outcome(err error) string {
	if errors.Is(err, gadget.ErrNotFound) {
		return "not_found"
	}
	return "error"
}
