package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-pms-backend/internal/db"
	"hotel-pms-backend/internal/model"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	wp.Dispatch("night audit completed")

	select {
	case job := <-wp.jobs:
		assert.Equal(t, "night audit completed", job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchNilPool(t *testing.T) {
	var wp *WorkerPool
	// Must not panic.
	wp.Dispatch("dropped")
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("broadcasts to every subscription", func(t *testing.T) {
		subs := []model.PushSubscription{
			{Endpoint: "https://example.com/push/1", P256DH: "k1", Auth: "a1"},
			{Endpoint: "https://example.com/push/2", P256DH: "k2", Auth: "a2"},
		}
		require.NoError(t, gormDB.Create(&subs).Error)

		var wg sync.WaitGroup
		wg.Add(2)

		var mu sync.Mutex
		delivered := make(map[string]string)

		wp.SetSender(&mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				mu.Lock()
				delivered[sub.Endpoint] = string(payload)
				mu.Unlock()
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		})

		wp.Dispatch("New website booking from Carol King (Standard, 2024-06-01 to 2024-06-03)")
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, delivered, 2)
		for _, payload := range delivered {
			assert.Contains(t, payload, "Carol King")
		}
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		require.NoError(t, gormDB.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&model.PushSubscription{}).Error)

		expired := model.PushSubscription{Endpoint: "https://example.com/expired", P256DH: "k", Auth: "a"}
		require.NoError(t, gormDB.Create(&expired).Error)

		var wg sync.WaitGroup
		wg.Add(1)
		wp.SetSender(&mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		})

		wp.Dispatch("audit completed")
		wg.Wait()

		// The delete runs after the sender returns.
		assert.Eventually(t, func() bool {
			var count int64
			gormDB.Model(&model.PushSubscription{}).Count(&count)
			return count == 0
		}, time.Second, 10*time.Millisecond)
	})
}
