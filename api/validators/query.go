package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryList collects key=a&key=b, key[]=a and key=a,b into one list.
func ParseQueryList(r *http.Request, key string) []string {
	query := r.URL.Query()
	var out []string
	for _, raw := range append(query[key], query[key+"[]"]...) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseSortOrder reads "asc" or "desc" (default desc) and reports whether the
// order is ascending.
func ParseSortOrder(r *http.Request, key string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "", "desc":
		return false, nil
	case "asc":
		return true, nil
	}
	return false, pkgerrors.New(pkgerrors.CodeValidation, "sort must be asc or desc").WithDetails(map[string]any{"field": key})
}
