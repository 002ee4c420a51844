package live

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "github.com/mattn/go-sqlite3"

	"panion/internal/analytics"
	"panion/internal/model"
)

// Snapshots regenerate every time this many live messages accumulate.
const snapshotEvery = 50

// Session owns one live WhatsApp connection and the messages captured
// through it.
type Session struct {
	ID         string
	CouponCode string

	client   *whatsmeow.Client
	reporter Reporter
	log      zerolog.Logger

	mu          sync.Mutex
	messages    []model.Message
	qrDataURL   string
	paired      bool
	ready       bool
	analyticsID string
}

// connect opens the device store under authDir and starts the client. When
// the device has no stored credentials a QR pairing flow begins and the
// rendered code becomes available via QRCode.
func (s *Session) connect(ctx context.Context, authDir string) error {
	if err := os.MkdirAll(authDir, 0o755); err != nil {
		return fmt.Errorf("create auth dir: %w", err)
	}

	dsn := "file:" + filepath.Join(authDir, "session.db") + "?_foreign_keys=on"
	container, err := sqlstore.New(ctx, "sqlite3", dsn, waLog.Noop)
	if err != nil {
		return fmt.Errorf("open device store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return fmt.Errorf("get device: %w", err)
	}

	s.client = whatsmeow.NewClient(device, waLog.Noop)
	s.client.AddEventHandler(s.handleEvent)

	if s.client.Store.ID == nil {
		qrChan, err := s.client.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("qr channel: %w", err)
		}
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		go s.watchQR(qrChan)
		return nil
	}

	s.mu.Lock()
	s.paired = true
	s.mu.Unlock()

	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}

func (s *Session) watchQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		switch evt.Event {
		case "code":
			dataURL, err := qrDataURL(evt.Code)
			if err != nil {
				s.log.Error().Err(err).Msg("render qr code")
				continue
			}
			s.mu.Lock()
			s.qrDataURL = dataURL
			s.mu.Unlock()
			s.log.Info().Str("session", s.ID).Msg("qr code generated")
		case "success":
			s.mu.Lock()
			s.paired = true
			s.qrDataURL = ""
			s.mu.Unlock()
			s.log.Info().Str("session", s.ID).Msg("pairing complete")
		}
	}
}

func (s *Session) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		s.record(convertMessage(v))
	case *events.PairSuccess:
		s.mu.Lock()
		s.paired = true
		s.ready = true
		s.qrDataURL = ""
		s.mu.Unlock()
		s.log.Info().
			Str("session", s.ID).
			Str("region", regionOf(v.ID.User)).
			Msg("device paired")
	case *events.Connected:
		s.mu.Lock()
		s.ready = true
		s.mu.Unlock()
	case *events.LoggedOut:
		s.mu.Lock()
		s.paired = false
		s.ready = false
		s.mu.Unlock()
		s.log.Warn().Str("session", s.ID).Msg("device logged out")
	}
}

// record appends a captured message and regenerates the snapshot on every
// fiftieth message.
func (s *Session) record(msg model.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	count := len(s.messages)
	s.mu.Unlock()

	if count > 0 && count%snapshotEvery == 0 {
		if _, err := s.generate(); err != nil {
			s.log.Error().Err(err).Str("session", s.ID).Msg("generate snapshot")
		}
	}
}

// generate builds a snapshot from the captured messages, saves it under a
// fresh id, and returns that id.
func (s *Session) generate() (string, error) {
	s.mu.Lock()
	msgs := make([]model.Message, len(s.messages))
	copy(msgs, s.messages)
	s.mu.Unlock()

	if len(msgs) == 0 {
		return "", fmt.Errorf("no messages captured yet")
	}

	snapshot := analytics.New(msgs, "").Generate()
	id := uuid.NewString()
	if err := s.reporter.SaveReport(id, snapshot); err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	s.mu.Lock()
	s.analyticsID = id
	s.mu.Unlock()

	s.log.Info().Str("session", s.ID).Str("analytics", id).Msg("snapshot generated")
	return id, nil
}

// QRCode returns the current pairing code as a PNG data URL, empty once
// paired or before the first code arrives.
func (s *Session) QRCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qrDataURL
}

// Paired reports whether the device has completed pairing.
func (s *Session) Paired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paired
}

// Ready reports whether the connection is established.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// AnalyticsID returns the id of the most recent snapshot, empty when none
// has been generated.
func (s *Session) AnalyticsID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyticsID
}

// MessageCount returns how many live messages have been captured.
func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Session) disconnect() {
	if s.client != nil {
		s.client.Disconnect()
	}
}

// convertMessage maps a live event onto the transcript message shape so the
// same analytics pipeline serves both inputs.
func convertMessage(evt *events.Message) model.Message {
	sender := evt.Info.PushName
	if sender == "" {
		sender = evt.Info.Sender.User
	}

	content := evt.Message.GetConversation()
	if content == "" {
		content = evt.Message.GetExtendedTextMessage().GetText()
	}

	msg := model.Message{
		Timestamp: evt.Info.Timestamp,
		Sender:    sender,
		Content:   content,
		Type:      model.TypeText,
	}

	switch {
	case evt.Message.GetImageMessage() != nil:
		msg.Type = model.TypeMedia
		msg.MediaType = model.MediaPhoto
		msg.Content = evt.Message.GetImageMessage().GetCaption()
	case evt.Message.GetVideoMessage() != nil:
		msg.Type = model.TypeMedia
		msg.MediaType = model.MediaVideo
		msg.Content = evt.Message.GetVideoMessage().GetCaption()
	case evt.Message.GetAudioMessage() != nil:
		msg.Type = model.TypeVoice
		msg.MediaType = model.MediaVoice
	case evt.Message.GetDocumentMessage() != nil:
		msg.Type = model.TypeMedia
		msg.MediaType = model.MediaDocument
	}

	return msg
}

// regionOf resolves the ISO region for a bare JID user part, or "" when the
// number doesn't parse.
func regionOf(jidUser string) string {
	num, err := phonenumbers.Parse("+"+jidUser, "")
	if err != nil {
		return ""
	}
	return phonenumbers.GetRegionCodeForNumber(num)
}

// qrDataURL renders a pairing code as a 512x512 PNG data URL.
func qrDataURL(code string) (string, error) {
	qrCode, err := qr.Encode(code, qr.L, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	qrCode, err = barcode.Scale(qrCode, 512, 512)
	if err != nil {
		return "", fmt.Errorf("scale qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return "", fmt.Errorf("render qr png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
