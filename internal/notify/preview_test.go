package notify_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rfournie/appforge/internal/notify"
	"github.com/stretchr/testify/require"
)

func TestPreviewClient_PostsRefresh(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		hits.Add(1)
	}))
	defer srv.Close()

	client := notify.NewPreviewClient(srv.URL, nil)
	client.RefreshPreview()

	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, time.Millisecond)
}

func TestPreviewClient_EmptyURLIsNoOp(t *testing.T) {
	client := notify.NewPreviewClient("", nil)
	client.RefreshPreview()
}
