// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/infrastructure/email"
	"github.com/advisorly/consult-service/internal/infrastructure/store"
	"github.com/advisorly/consult-service/internal/logging"
)

const natsConnectTimeout = 10 * time.Second

// setupNATS establishes the NATS connection used for both the KV store and
// event publishing. The closed handler decrements the graceful close wait
// group so shutdown can wait for the drain to finish.
func setupNATS(env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name("consult-service"),
		nats.Timeout(natsConnectTimeout),
		nats.DrainTimeout(25*time.Second),
		nats.ConnectHandler(func(nc *nats.Conn) {
			slog.With("nats_url", nc.ConnectedUrlRedacted()).Info("connected to NATS")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			slog.With(logging.ErrKey, err).Error("NATS error")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.Info("NATS connection closed")
			gracefulCloseWG.Done()
			select {
			case done <- os.Interrupt:
			default:
			}
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}

// repositories bundles the KV-backed stores handed to the services.
type repositories struct {
	Booking     *store.NatsBookingRepository
	Meeting     *store.NatsMeetingRepository
	WaitingRoom *store.NatsWaitingRoomRepository
	Chat        *store.NatsChatRepository
}

// getKeyValueStores creates or binds the JetStream KV buckets backing the
// service's repositories.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	buckets := map[string]jetstream.KeyValue{}
	for _, bucket := range []string{
		store.KVStoreNameBookings,
		store.KVStoreNameMeetings,
		store.KVStoreNameWaitingRoom,
		store.KVStoreNameChatMessages,
		store.KVStoreNameChatAttachments,
	} {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
		if err != nil {
			slog.With(logging.ErrKey, err, "bucket", bucket).Error("error binding KV bucket")
			return nil, err
		}
		buckets[bucket] = kv
	}

	return &repositories{
		Booking:     store.NewNatsBookingRepository(buckets[store.KVStoreNameBookings]),
		Meeting:     store.NewNatsMeetingRepository(buckets[store.KVStoreNameMeetings]),
		WaitingRoom: store.NewNatsWaitingRoomRepository(buckets[store.KVStoreNameWaitingRoom]),
		Chat:        store.NewNatsChatRepository(buckets[store.KVStoreNameChatMessages], buckets[store.KVStoreNameChatAttachments]),
	}, nil
}

// setupEmailService selects the SMTP sender when configured, otherwise the
// no-op sender that only logs.
func setupEmailService(env environment) (domain.EmailService, error) {
	if env.SMTP.Host == "" {
		slog.Info("SMTP not configured, email notifications disabled")
		return email.NewNoOpService(), nil
	}

	return email.NewSMTPService(email.SMTPConfig{
		Host:     env.SMTP.Host,
		Port:     env.SMTP.Port,
		From:     env.SMTP.From,
		Username: env.SMTP.Username,
		Password: env.SMTP.Password,
	})
}
