package stream

import (
	"context"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/c9s/chartsync/pkg/net/websocketbase"
	"github.com/c9s/chartsync/pkg/types"
	backoff2 "github.com/c9s/chartsync/pkg/util/backoff"
)

var log = logrus.WithField("component", "stream")

// SubscribeCommand is sent after every (re)connect to select the topic of the connection.
type SubscribeCommand struct {
	Op    string `json:"op"`
	Topic string `json:"topic"`
}

// WebsocketSource opens one websocket connection per subscription.
type WebsocketSource struct {
	URL string

	NewBackOff func() backoff.BackOff
}

func NewWebsocketSource(url string) *WebsocketSource {
	return &WebsocketSource{URL: url, NewBackOff: backoff2.NewReconnectBackOff}
}

func (s *WebsocketSource) OpenStream(ctx context.Context, req types.StreamRequest) (types.Stream, error) {
	return &websocketStream{ctx: ctx, source: s, topic: req.Topic()}, nil
}

type websocketStream struct {
	ctx    context.Context
	source *WebsocketSource
	topic  string
}

func (s *websocketStream) Subscribe(o types.Observer) (types.Subscription, error) {
	client := websocketbase.NewWebsocketClientBase(s.source.URL, s.source.NewBackOff)
	client.OnConnected(func(conn *websocket.Conn) {
		if err := conn.WriteJSON(SubscribeCommand{Op: "subscribe", Topic: s.topic}); err != nil {
			client.EmitError(err)
		}
	})

	client.OnDisconnected(func(conn *websocket.Conn) {
		log.Infof("%s: disconnected from %s, reconnecting", s.topic, conn.RemoteAddr())
	})

	if o.Next != nil {
		client.OnMessage(o.Next)
	}

	if o.Error != nil {
		client.OnError(o.Error)
	}

	ctx, cancel := context.WithCancel(s.ctx)
	if err := client.Connect(ctx); err != nil {
		cancel()
		return nil, err
	}

	var once sync.Once
	return types.SubscriptionFunc(func() (err error) {
		once.Do(func() {
			cancel()
			err = client.Close()
		})
		return err
	}), nil
}
