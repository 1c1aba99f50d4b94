package controllers

import (
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/reddit"
	"rpd/internal/report"
	"rpd/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const (
	formatText = "text"
	formatJSON = "json"
)

type ApiController struct {
	logger   providers.Logger
	activity services.ActivityServiceInterface
	persona  services.PersonaServiceInterface
	renderer *report.Renderer
	cache    providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, activity services.ActivityServiceInterface, persona services.PersonaServiceInterface, renderer *report.Renderer, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:   logger,
		activity: activity,
		persona:  persona,
		renderer: renderer,
		cache:    cache,
	}
}

// GetPersona runs the full pipeline for ?u=<name>: fetch or reuse activity,
// aggregate, render as ?format=text or json. Rendered responses are cached
// per user and format until the underlying activity is refetched.
func (ac *ApiController) GetPersona(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("u")
	if username == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatText
	}
	if format != formatText && format != formatJSON {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	key := strings.ToLower(username)
	cacheKey := personaCacheKey(format, key)

	if data, ok := ac.cache.Get(cacheKey); ok {
		writeResponse(w, contentTypeFor(format), data)
		return
	}

	ua, refreshed, err := ac.activity.GetOrFetch(r.Context(), username, false)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	if refreshed {
		ac.invalidate(key)
	}

	persona, err := ac.persona.Aggregate(&ua.Profile, ua.Activities)
	if err != nil {
		ac.writeError(w, err)
		return
	}

	var data []byte
	if format == formatJSON {
		data, err = json.Marshal(persona)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	} else {
		data = []byte(ac.renderer.Render(persona))
	}

	ac.cache.Set(cacheKey, data)
	writeResponse(w, contentTypeFor(format), data)
}

func (ac *ApiController) GetUsers(w http.ResponseWriter, r *http.Request) {
	if data, ok := ac.cache.Get("users"); ok {
		writeResponse(w, "application/json", data)
		return
	}

	gson, err := json.Marshal(ac.activity.Users())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set("users", gson)
	writeResponse(w, "application/json", gson)
}

type refreshRequest struct {
	U string `json:"u"`
}

type refreshResponse struct {
	User     string `json:"user"`
	Comments int    `json:"comments"`
	Posts    int    `json:"posts"`
}

// RefreshPersona force-refetches a user and drops every cached response
// derived from the old data.
func (ac *ApiController) RefreshPersona(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload refreshRequest
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil || payload.U == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ua, _, err := ac.activity.GetOrFetch(r.Context(), payload.U, true)
	if err != nil {
		ac.writeError(w, err)
		return
	}

	key := strings.ToLower(payload.U)
	ac.invalidate(key)

	resp := refreshResponse{User: key}
	for i := range ua.Activities {
		if ua.Activities[i].Kind == models.KindComment {
			resp.Comments++
		} else {
			resp.Posts++
		}
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeResponse(w, "application/json", gson)
}

func (ac *ApiController) invalidate(key string) {
	ac.cache.Del(personaCacheKey(formatText, key))
	ac.cache.Del(personaCacheKey(formatJSON, key))
	ac.cache.Del("users")
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	var insufficient *models.InsufficientDataError
	switch {
	case errors.Is(err, reddit.ErrNotFound):
		http.Error(w, "User Not Found", http.StatusNotFound)
	case errors.Is(err, reddit.ErrForbidden):
		http.Error(w, "User Forbidden", http.StatusForbidden)
	case errors.As(err, &insufficient):
		http.Error(w, insufficient.Error(), http.StatusUnprocessableEntity)
	default:
		ac.logger.Errorf(providers.TypeHTTP, "persona pipeline failed: %s", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
	}
}

func personaCacheKey(format string, user string) string {
	return "persona:" + format + ":" + user
}

func contentTypeFor(format string) string {
	if format == formatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

func writeResponse(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
