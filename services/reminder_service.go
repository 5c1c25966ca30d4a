package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tailortrack-backend/config"
	"tailortrack-backend/models"
	"tailortrack-backend/store"
)

// ReminderService sends delivery reminders to customers whose orders are due.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// StartScheduler schedules the daily reminder run at 9 AM shop time.
func (s *ReminderService) StartScheduler() {
	c := cron.New()

	if _, err := c.AddFunc("0 9 * * *", s.SendDueDeliveryReminders); err != nil {
		config.Log.Error("failed to schedule reminders", zap.Error(err))
		return
	}

	c.Start()
	config.Log.Info("Reminder scheduler started")
}

// SendDueDeliveryReminders messages every customer with an undelivered bill
// whose delivery date has arrived. Each attempt is recorded in the reminder
// log, successful or not.
func (s *ReminderService) SendDueDeliveryReminders() {
	config.Log.Info("Starting due delivery reminder run")

	bills, err := store.DueDeliveries(s.db, time.Now())
	if err != nil {
		config.Log.Error("failed to fetch due deliveries", zap.Error(err))
		return
	}

	sent := 0
	for i := range bills {
		if s.remindCustomer(&bills[i]) {
			sent++
		}
	}

	config.Log.Info("Due delivery reminder run completed",
		zap.Int("due", len(bills)), zap.Int("sent", sent))
}

func (s *ReminderService) remindCustomer(bill *models.Bill) bool {
	phone := primaryPhone(bill.Customer.Phones)
	if phone == "" {
		config.Log.Warn("customer has no phone, skipping reminder",
			zap.String("billId", bill.ID.String()))
		return false
	}

	// One reminder per bill per day
	var count int64
	today := time.Now().Truncate(24 * time.Hour)
	if err := s.db.Model(&models.DeliveryReminderLog{}).
		Where("bill_id = ? AND status = ? AND sent_at >= ?", bill.ID, "sent", today).
		Count(&count).Error; err == nil && count > 0 {
		return false
	}

	message := fmt.Sprintf(
		"Namaste %s, your order (bill #%d) is ready for pickup at the shop. Balance due: %.2f.",
		bill.Customer.Name, bill.FolioNumber, bill.BalanceDue)

	channel := "sms"
	to := phone
	if strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	status := "sent"
	errorMsg := ""
	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		config.Log.Error("failed to send reminder",
			zap.String("phone", phone), zap.Error(err))
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		config.Log.Info("reminder sent",
			zap.String("phone", phone), zap.String("sid", *resp.Sid))
	}

	logEntry := models.DeliveryReminderLog{
		BillID:       bill.ID,
		CustomerID:   bill.CustomerID,
		Phone:        phone,
		Message:      message,
		Channel:      channel,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&logEntry).Error; err != nil {
		config.Log.Error("failed to log reminder",
			zap.String("billId", bill.ID.String()), zap.Error(err))
	}

	return status == "sent"
}

func primaryPhone(phones []models.Phone) string {
	for _, p := range phones {
		if p.IsPrimary {
			return p.Phone
		}
	}
	if len(phones) > 0 {
		return phones[0].Phone
	}
	return ""
}
