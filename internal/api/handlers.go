package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Veraticus/petit-bac/internal/model"
	"github.com/Veraticus/petit-bac/internal/validator"
)

type handlers struct {
	svc     WordValidator
	lists   ListSizer
	timeout time.Duration
}

func newHandlers(svc WordValidator, opts Options) handlers {
	return handlers{svc: svc, lists: opts.Lists, timeout: opts.RequestTimeout}
}

// ValidationResponse is the body returned by the validate routes.
type ValidationResponse struct {
	RequestID string                  `json:"request_id"`
	Category  string                  `json:"category"`
	Word      string                  `json:"word"`
	Outcome   model.ValidationOutcome `json:"outcome"`
	ElapsedMS int64                   `json:"elapsed_ms"`
	LowTrust  bool                    `json:"low_trust"`
}

// CategoryResponse describes one category.
type CategoryResponse struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Hint     string   `json:"hint"`
	Anchors  []string `json:"anchors"`
	Keywords []string `json:"keywords"`
	ListSize int      `json:"list_size"`
}

type validateRequest struct {
	Category string `json:"category" form:"category"`
	Word     string `json:"word" form:"word"`
}

func (h handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":               "ok",
		"validators":           h.svc.AvailableValidators(),
		"confidence_threshold": h.svc.ConfidenceThreshold(),
	})
}

func (h handlers) ValidateQuery(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	h.validate(c, req)
}

func (h handlers) ValidateJSON(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	h.validate(c, req)
}

// validate answers 200 for every verdict and 400 when the outcome is ERROR,
// meaning the request itself was malformed.
func (h handlers) validate(c *gin.Context, req validateRequest) {
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	outcome := h.svc.ValidateWord(ctx, req.Category, req.Word)

	status := http.StatusOK
	if outcome.IsError() {
		status = http.StatusBadRequest
	}

	c.JSON(status, ValidationResponse{
		RequestID: c.GetString(requestIDHeader),
		Category:  req.Category,
		Word:      req.Word,
		Outcome:   outcome,
		ElapsedMS: time.Since(start).Milliseconds(),
		LowTrust:  outcome.IsValid() && outcome.Confidence < h.svc.ConfidenceThreshold(),
	})
}

func (h handlers) Categories(c *gin.Context) {
	categories := model.Categories()
	resp := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		keywords := validator.Keywords(cat)
		if keywords == nil {
			keywords = []string{}
		}
		item := CategoryResponse{
			Key:      cat.Key(),
			Label:    cat.Label(),
			Icon:     cat.Icon(),
			Hint:     cat.Hint(),
			Anchors:  validator.Anchors(cat),
			Keywords: keywords,
		}
		if h.lists != nil {
			item.ListSize = h.lists.Size(cat)
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, gin.H{"categories": resp})
}
