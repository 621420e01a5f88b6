package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveTag(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/round?lang=en", nil)
	tag, persist := ResolveTag(req, Default())
	if tag != language.English || !persist {
		t.Fatalf("query: tag=%v persist=%v", tag, persist)
	}

	req = httptest.NewRequest(http.MethodGet, "/round", nil)
	req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "en"})
	if tag, persist := ResolveTag(req, Default()); tag != language.English || persist {
		t.Fatalf("cookie: tag=%v persist=%v", tag, persist)
	}

	req = httptest.NewRequest(http.MethodGet, "/round", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if tag, _ := ResolveTag(req, Default()); tag != language.English {
		t.Fatalf("accept-language: tag=%v", tag)
	}

	req = httptest.NewRequest(http.MethodGet, "/round", nil)
	if tag, _ := ResolveTag(req, language.Japanese); tag != language.Japanese {
		t.Fatalf("default: tag=%v", tag)
	}
}
