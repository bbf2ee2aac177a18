package dictionary

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/wordchain/gameserver/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestAPIValidator_ValidWord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.do" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "사과" {
			t.Errorf("Unexpected query word %q", got)
		}
		if got := r.URL.Query().Get("method"); got != "exact" {
			t.Errorf("Expected exact match lookup, got %q", got)
		}
		fmt.Fprint(w, `{"channel":{"total":1,"item":[{"sense":{"definition":"사과나무의 열매."}}]}}`)
	}))
	defer server.Close()

	validator := NewAPIValidator(server.URL, "test-key", time.Second)

	valid, definition := validator.Validate("사과")
	if !valid {
		t.Fatal("Expected 사과 to be valid")
	}
	if definition != "사과나무의 열매." {
		t.Errorf("definition = %q", definition)
	}
}

func TestAPIValidator_TotalAsString(t *testing.T) {
	// The API is known to return total as a JSON string.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"channel":{"total":"2","item":[{"sense":{"definition":"뜻풀이"}}]}}`)
	}))
	defer server.Close()

	validator := NewAPIValidator(server.URL, "test-key", time.Second)
	if valid, _ := validator.Validate("사과"); !valid {
		t.Error("String total should still count as valid")
	}
}

func TestAPIValidator_UnknownWord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"channel":{"total":0}}`)
	}))
	defer server.Close()

	validator := NewAPIValidator(server.URL, "test-key", time.Second)
	if valid, _ := validator.Validate("없는말"); valid {
		t.Error("total 0 should be invalid")
	}
}

func TestAPIValidator_FailuresAreInvalid(t *testing.T) {
	statusServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer statusServer.Close()

	garbageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	}))
	defer garbageServer.Close()

	deadServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadServer.Close()

	for name, validator := range map[string]*APIValidator{
		"http 500":    NewAPIValidator(statusServer.URL, "k", time.Second),
		"bad payload": NewAPIValidator(garbageServer.URL, "k", time.Second),
		"unreachable": NewAPIValidator(deadServer.URL, "k", time.Second),
	} {
		if valid, _ := validator.Validate("사과"); valid {
			t.Errorf("%s should be treated as invalid", name)
		}
	}
}
