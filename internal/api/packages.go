package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aquarius/internal/logging"
	"aquarius/internal/packages"
)

// createPackageRequest is the ingestion payload. Digitization and
// legacy-digital packages arrive with a component already described in the
// target system and carry its reference up front.
type createPackageRequest struct {
	BagIdentifier           string `json:"identifier"`
	Type                    string `json:"package_type"`
	Origin                  string `json:"origin"`
	FedoraURI               string `json:"fedora_uri"`
	ArchivesSpaceIdentifier string `json:"archivesspace_identifier"`
}

// packageView is the JSON shape returned for a package.
type packageView struct {
	ID            int64                     `json:"id"`
	BagIdentifier string                    `json:"identifier"`
	Type          string                    `json:"package_type"`
	Origin        string                    `json:"origin"`
	FedoraURI     string                    `json:"fedora_uri,omitempty"`
	ProcessStatus int                       `json:"process_status"`
	StatusLabel   string                    `json:"status_label"`
	Data          *packages.TransferRecord  `json:"transfer_data,omitempty"`
	AccessionData *packages.AccessionRecord `json:"accession_data,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

func viewOf(pkg *packages.Package) packageView {
	return packageView{
		ID:            pkg.ID,
		BagIdentifier: pkg.BagIdentifier,
		Type:          pkg.Type,
		Origin:        pkg.Origin,
		FedoraURI:     pkg.FedoraURI,
		ProcessStatus: int(pkg.ProcessStatus),
		StatusLabel:   pkg.ProcessStatus.Label(),
		Data:          pkg.Data,
		AccessionData: pkg.AccessionData,
		CreatedAt:     pkg.CreatedAt,
		UpdatedAt:     pkg.UpdatedAt,
	}
}

func (s *Server) handleCreatePackage(w http.ResponseWriter, r *http.Request) {
	var req createPackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	req.BagIdentifier = strings.TrimSpace(req.BagIdentifier)
	if req.BagIdentifier == "" {
		writeError(w, http.StatusBadRequest, "identifier is required")
		return
	}
	switch req.Type {
	case "aip", "dip":
	default:
		writeError(w, http.StatusBadRequest, "package_type must be aip or dip")
		return
	}
	if req.Origin == "" {
		req.Origin = packages.OriginAurora
	}

	pkg := &packages.Package{
		BagIdentifier: req.BagIdentifier,
		Type:          req.Type,
		Origin:        req.Origin,
		FedoraURI:     req.FedoraURI,
	}

	switch req.Origin {
	case packages.OriginAurora:
	case packages.OriginDigitization, packages.OriginLegacyDigital:
		// These packages describe material already arranged in the target
		// system; they join the pipeline at the digital-object stage.
		if req.ArchivesSpaceIdentifier == "" {
			writeError(w, http.StatusBadRequest, "archivesspace_identifier is required for origin "+req.Origin)
			return
		}
		pkg.Data = &packages.TransferRecord{
			ArchivesSpaceIdentifier: req.ArchivesSpaceIdentifier,
		}
		pkg.ProcessStatus = packages.StatusTransferComponentCreated
	default:
		writeError(w, http.StatusBadRequest, "unknown origin "+req.Origin)
		return
	}

	if err := s.store.Create(r.Context(), pkg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("package ingested",
		logging.Int64(logging.FieldPackageID, pkg.ID),
		logging.String(logging.FieldBagID, pkg.BagIdentifier),
		logging.String("origin", pkg.Origin))
	writeJSON(w, http.StatusCreated, viewOf(pkg))
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if raw := r.URL.Query().Get("updated_since"); raw != "" {
		parsed, err := parseSince(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "updated_since must be RFC 3339 or a unix timestamp")
			return
		}
		since = parsed
	}
	var status packages.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := packages.ParseStatus(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown status "+raw)
			return
		}
		status = parsed
	}

	list, err := s.store.List(r.Context(), since, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]packageView, 0, len(list))
	for _, pkg := range list {
		views = append(views, viewOf(pkg))
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(views), "results": views})
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "package id must be numeric")
		return
	}
	pkg, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pkg == nil {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(pkg))
}

func parseSince(raw string) (time.Time, error) {
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, raw)
}
