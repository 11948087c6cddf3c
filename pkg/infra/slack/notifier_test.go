package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/gt"

	"github.com/kuroba-ex/shipper/pkg/domain/model"
	slackinfra "github.com/kuroba-ex/shipper/pkg/infra/slack"
)

func TestNotifier_Notify(t *testing.T) {
	var got map[string]any
	r := chi.NewRouter()
	r.Post("/services/T000/B000/XXX", func(w http.ResponseWriter, req *http.Request) {
		gt.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		_, _ = w.Write([]byte("ok"))
	})
	server := httptest.NewServer(r)
	defer server.Close()

	notifier := slackinfra.New(server.URL+"/services/T000/B000/XXX", slackinfra.WithChannel("#releases"))
	err := notifier.Notify(context.Background(), &model.Release{
		TagName: "v1.2.3.0-beta",
		HTMLURL: "https://github.com/kuroba-ex/app/releases/tag/v1.2.3.0-beta",
		Body:    "- fix bug\n- add feature\n",
	})
	gt.NoError(t, err)

	gt.Value(t, got["channel"]).Equal("#releases")
	text, ok := got["text"].(string)
	gt.Value(t, ok).Equal(true)
	gt.Value(t, text).Equal("Released v1.2.3.0-beta: https://github.com/kuroba-ex/app/releases/tag/v1.2.3.0-beta\n\n- fix bug\n- add feature\n")
}

func TestNotifier_NotifyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token"))
	}))
	defer server.Close()

	err := slackinfra.New(server.URL).Notify(context.Background(), &model.Release{TagName: "v1.0.0.0-beta"})
	gt.Error(t, err)
}

func TestNotifier_NotifyWithoutURL(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gt.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	err := slackinfra.New(server.URL).Notify(context.Background(), &model.Release{TagName: "v1.0.0.0-beta"})
	gt.NoError(t, err)
	gt.Value(t, got["text"]).Equal("Released v1.0.0.0-beta\n")
}
