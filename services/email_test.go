package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartspend/smartspend-api/models"
)

func TestSendBudgetAlert(t *testing.T) {
	var got map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewEmailService("re_test", "alerts@smartspend.app", "http://localhost:3000")
	svc.endpoint = srv.URL

	user := &models.User{FullName: "Sam", Email: "sam@uni.edu"}
	st := models.BudgetStatus{
		Budget:       models.Budget{Category: "Food", Amount: 100, Period: models.PeriodMonthly},
		Spent:        85,
		PercentSpent: 85,
		IsAlert:      true,
		Status:       models.BudgetStatusNearLimit,
	}
	if err := svc.SendBudgetAlert(context.Background(), user, st); err != nil {
		t.Fatalf("SendBudgetAlert: %v", err)
	}

	if auth != "Bearer re_test" {
		t.Errorf("authorization = %q", auth)
	}
	if got["subject"] != "SmartSpend: Food budget at 85%" {
		t.Errorf("subject = %v", got["subject"])
	}
	html, _ := got["html"].(string)
	if !strings.Contains(html, "85%") || !strings.Contains(html, "http://localhost:3000/budgets") {
		t.Errorf("html body missing details: %s", html)
	}
}

func TestSendBudgetAlertErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	svc := NewEmailService("re_test", "alerts@smartspend.app", "")
	svc.endpoint = srv.URL
	if err := svc.SendBudgetAlert(context.Background(), &models.User{Email: "a@b.co"}, models.BudgetStatus{}); err == nil {
		t.Error("expected error on non-2xx response")
	}

	disabled := NewEmailService("", "alerts@smartspend.app", "")
	if disabled.Enabled() {
		t.Error("service without API key should be disabled")
	}
	if err := disabled.SendBudgetAlert(context.Background(), &models.User{Email: "a@b.co"}, models.BudgetStatus{}); err == nil {
		t.Error("expected error when API key is missing")
	}
}
