package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
)

type contactBody struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,numeric"`
	Kind  string `json:"kind" validate:"oneof=CC NIT"`
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Al","email":"nope","phone":"30a","kind":"XX"}`))
	var body contactBody
	err := DecodeJSONBody(httptest.NewRecorder(), r, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	want := map[string]string{
		"name":  "must be at least 3",
		"email": "must be a valid email",
		"phone": "must contain only digits",
		"kind":  "must be one of [CC NIT]",
	}
	for field, msg := range want {
		if details[field] != msg {
			t.Fatalf("field %s: got %q want %q", field, details[field], msg)
		}
	}
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"unknown field": `{"name":"Alba","email":"a@b.co","phone":"1","kind":"CC","price":1}`,
		"trailing data": `{"name":"Alba","email":"a@b.co","phone":"1","kind":"CC"}{}`,
		"not json":      `name=Alba`,
		"wrong type":    `{"name":5}`,
	}
	for name, payload := range cases {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		var body contactBody
		if err := DecodeJSONBody(httptest.NewRecorder(), r, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestParseQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=500&status=APPROVED,DECLINED&status[]=PENDING&sort=ASC", nil)

	if _, err := ParseQueryInt(r, "limit", 10, 1, 100); err == nil {
		t.Fatal("expected range error")
	}
	if page, err := ParseQueryInt(r, "page", 1, 1, 1000); err != nil || page != 1 {
		t.Fatalf("default page: %d %v", page, err)
	}
	statuses := ParseQueryList(r, "status")
	if strings.Join(statuses, "|") != "APPROVED|DECLINED|PENDING" {
		t.Fatalf("unexpected statuses %v", statuses)
	}
	if asc, err := ParseSortOrder(r, "sort"); err != nil || !asc {
		t.Fatalf("sort asc: %v %v", asc, err)
	}
	bad := httptest.NewRequest(http.MethodGet, "/?sort=sideways", nil)
	if _, err := ParseSortOrder(bad, "sort"); err == nil {
		t.Fatal("expected sort error")
	}
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	if got := SanitizeString("  Medellín  ", 7); got != "Medell" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeString(" ok ", 10); got != "ok" {
		t.Fatalf("got %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	if token, err := BearerToken("Bearer abc.def"); err != nil || token != "abc.def" {
		t.Fatalf("got %q %v", token, err)
	}
	if token, err := BearerToken("abc"); err != nil || token != "abc" {
		t.Fatalf("raw token: %q %v", token, err)
	}
	if _, err := BearerToken("Bearer   "); err == nil {
		t.Fatal("expected missing token")
	}
}
