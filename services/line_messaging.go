package services

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/linebot"
	"github.com/sirupsen/logrus"

	"classtrack_go/config"
	"classtrack_go/models"
)

// LineMessagingService pushes parent messages over the LINE Messaging API.
// The client stays nil when the channel credentials are not configured and
// every send fails with an explicit error instead of panicking.
type LineMessagingService struct {
	bot *linebot.Client
}

func NewLineMessagingService() *LineMessagingService {
	secret := config.AppConfig.LineChannelSecret
	token := config.AppConfig.LineChannelToken

	if secret == "" || token == "" {
		logrus.Warn("LINE messaging disabled: missing LINE_CHANNEL_SECRET or LINE_CHANNEL_ACCESS_TOKEN")
		return &LineMessagingService{}
	}

	bot, err := linebot.New(secret, token)
	if err != nil {
		logrus.WithError(err).Error("Cannot create LINE bot client")
		return &LineMessagingService{}
	}

	return &LineMessagingService{bot: bot}
}

// Enabled reports whether the LINE channel is configured.
func (s *LineMessagingService) Enabled() bool {
	return s.bot != nil
}

// SendToParent pushes a message to the student's parent LINE account.
func (s *LineMessagingService) SendToParent(student *models.Student, subject, body string) error {
	if s.bot == nil {
		return fmt.Errorf("LINE bot client is not initialized")
	}
	if student.ParentLineID == "" {
		return fmt.Errorf("student has no parent LINE ID")
	}

	text := body
	if subject != "" {
		text = subject + "\n\n" + body
	}

	if _, err := s.bot.PushMessage(student.ParentLineID, linebot.NewTextMessage(text)).Do(); err != nil {
		return fmt.Errorf("LINE push failed: %v", err)
	}
	return nil
}
