package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-assistant/internal/chat"
	"github.com/dvloznov/finance-assistant/internal/logger"
	"github.com/dvloznov/finance-assistant/internal/store"
)

// mockIngester implements Ingester with a function field.
type mockIngester struct {
	IngestFunc func(ctx context.Context, table store.RawTable) (int, error)
}

func (m *mockIngester) Ingest(ctx context.Context, table store.RawTable) (int, error) {
	return m.IngestFunc(ctx, table)
}

// mockAnswerer implements Answerer with a function field.
type mockAnswerer struct {
	AnswerFunc func(ctx context.Context, question string) (chat.Reply, error)
}

func (m *mockAnswerer) Answer(ctx context.Context, question string) (chat.Reply, error) {
	return m.AnswerFunc(ctx, question)
}

func multipartCSV(t *testing.T, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "t.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler_PassesDecodedTable(t *testing.T) {
	var got store.RawTable
	h := NewUploadHandler(&mockIngester{IngestFunc: func(_ context.Context, table store.RawTable) (int, error) {
		got = table
		return len(table.Rows), nil
	}}, 1<<20, logger.NewWithWriter(io.Discard))

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartCSV(t, "date,description,amount,category\n2024-01-05,Coffee,4.50,Food\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"File uploaded successfully","rows":1}`, rec.Body.String())
	assert.Equal(t, []string{"date", "description", "amount", "category"}, got.Columns)
	assert.Equal(t, [][]string{{"2024-01-05", "Coffee", "4.50", "Food"}}, got.Rows)
}

func TestUploadHandler_MalformedCSV(t *testing.T) {
	h := NewUploadHandler(&mockIngester{IngestFunc: func(context.Context, store.RawTable) (int, error) {
		t.Fatal("ingest must not be called")
		return 0, nil
	}}, 1<<20, logger.NewWithWriter(io.Discard))

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartCSV(t, "date,description\n\"open,x\n"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandler_IngestFailure(t *testing.T) {
	h := NewUploadHandler(&mockIngester{IngestFunc: func(context.Context, store.RawTable) (int, error) {
		return 0, errors.New("disk on fire")
	}}, 1<<20, logger.NewWithWriter(io.Discard))

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartCSV(t, "date,description,amount,category\n"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to process file: disk on fire"}`, rec.Body.String())
}

func TestChatHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		answer     func(ctx context.Context, q string) (chat.Reply, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "answered",
			body: `{"query":"hi"}`,
			answer: func(_ context.Context, q string) (chat.Reply, error) {
				return chat.Reply{Answer: "echo " + q}, nil
			},
			wantStatus: http.StatusOK,
			wantBody: `{"answer":"echo hi","context_used":{"spending_by_category":{},"top_merchants":{},
				"monthly_totals":{},"fastest_growing_category":{},"top_expenses_week":{}}}`,
		},
		{
			name: "empty question",
			body: `{"query":""}`,
			answer: func(context.Context, string) (chat.Reply, error) {
				return chat.Reply{}, chat.ErrEmptyQuestion
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"query is required"}`,
		},
		{
			name: "internal failure",
			body: `{"query":"hi"}`,
			answer: func(context.Context, string) (chat.Reply, error) {
				return chat.Reply{}, errors.New("boom")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to answer question"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewChatHandler(&mockAnswerer{AnswerFunc: tt.answer}, logger.NewWithWriter(io.Discard))

			rec := httptest.NewRecorder()
			h.Ask(rec, httptest.NewRequest(http.MethodPost, "/chatbot/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
