package service

import (
	"sync"

	"github.com/wfunc/nation-game/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestServices 构建基于内存数据库的服务集合
func newTestServices(mail *recordingMailer, notify *recordingNotifier) (*Services, *gorm.DB) {
	db := repository.SetupTestDB()
	log := zap.NewNop()
	services := NewServices(db, DefaultConfig(), mail, notify, log)
	return services, db
}

// recordingMailer 记录发送请求的测试邮件发送器
type recordingMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failNext bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{}
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) SendCaptureNotification(to, country string) error {
	return m.Send(to, "Country Captured Successfully", country)
}

func (m *recordingMailer) SendEmailVerification(to, token string) error {
	return m.Send(to, "Confirm your new email address", token)
}

func (m *recordingMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// recordingNotifier 记录地图广播的测试通知器
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{}
}

func (n *recordingNotifier) NotifyMapChanged(event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}
