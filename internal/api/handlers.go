package api

import (
	"net/http"

	"github.com/sprite-ai/riskgate/internal/classify"
	"github.com/sprite-ai/riskgate/internal/diff"
	"github.com/sprite-ai/riskgate/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// classifyRequest carries either an explicit path list or a raw unified
// diff to extract paths from. Paths win when both are present.
type classifyRequest struct {
	Paths []string `json:"paths,omitempty"`
	Diff  string   `json:"diff,omitempty"`
}

type classifyResponse struct {
	Classification model.Classification `json:"classification"`
	RequiredChecks []string             `json:"required_checks"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	paths := req.Paths
	if len(paths) == 0 && req.Diff != "" {
		cs, err := diff.Parse(req.Diff)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid diff: "+err.Error())
			return
		}
		paths = cs.Paths()
	}

	c := classify.Classify(paths, s.cfg)
	checks, _, _ := classify.ChecksFor(s.cfg, c.MaxTier)

	writeJSON(w, http.StatusOK, classifyResponse{
		Classification: c,
		RequiredChecks: checks,
	})
}

type checksRequest struct {
	Tier int `json:"tier"`
}

type checksResponse struct {
	Tier           int      `json:"tier"`
	TierName       string   `json:"tier_name"`
	RequiredChecks []string `json:"required_checks"`
	Warning        string   `json:"warning,omitempty"`
}

func (s *Server) handleChecks(w http.ResponseWriter, r *http.Request) {
	var req checksRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	checks, tier, warning := classify.ChecksFor(s.cfg, model.Tier(req.Tier))

	writeJSON(w, http.StatusOK, checksResponse{
		Tier:           int(tier),
		TierName:       tier.String(),
		RequiredChecks: checks,
		Warning:        warning,
	})
}
