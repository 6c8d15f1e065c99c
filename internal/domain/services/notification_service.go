package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"grojet-admin-service/internal/infrastructure/config"
	"grojet-admin-service/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// 邮件下发走MQTT交给独立的通知网关处理
const topicEmailDispatch = "grojet/notifications/email"

// InterfaceNotificationService 定义通知服务接口
type InterfaceNotificationService interface {
	Connect() error
	Disconnect()
	SendOTP(email, code string) error
}

// otpMessage 通知网关消费的邮件派发载荷
type otpMessage struct {
	Type      string `json:"type"`
	Email     string `json:"email"`
	Code      string `json:"code"`
	App       string `json:"app"`
	Timestamp int64  `json:"timestamp"`
}

// NotificationService 通过MQTT向通知网关投递OTP邮件。
// 未配置broker时降级为只记日志，不阻塞授权流程。
type NotificationService struct {
	cfg    *config.Config
	client mqtt.Client

	connectedMutex sync.RWMutex
	isConnected    bool
}

// NewNotificationService 创建通知服务
func NewNotificationService(cfg *config.Config) InterfaceNotificationService {
	service := &NotificationService{cfg: cfg}
	if cfg.MQTTBrokerURL != "" {
		service.setupMQTTClient()
	}
	return service
}

// setupMQTTClient 设置MQTT客户端
func (s *NotificationService) setupMQTTClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.MQTTBrokerURL)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("%s-%s", s.cfg.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	if s.cfg.MQTTUsername != "" {
		opts.SetUsername(s.cfg.MQTTUsername)
		opts.SetPassword(s.cfg.MQTTPassword)
	}

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Warning("MQTT连接丢失: %v", err)
		s.connectedMutex.Lock()
		s.isConnected = false
		s.connectedMutex.Unlock()
	})

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("MQTT已连接到 %s", s.cfg.MQTTBrokerURL)
		s.connectedMutex.Lock()
		s.isConnected = true
		s.connectedMutex.Unlock()
	})

	s.client = mqtt.NewClient(opts)
}

// Connect 连接到MQTT服务器。未配置broker时为空操作。
func (s *NotificationService) Connect() error {
	if s.client == nil {
		logger.Warning("未配置MQTT broker，OTP邮件将只记录日志")
		return nil
	}

	token := s.client.Connect()
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		return fmt.Errorf("连接MQTT失败: %w", token.Error())
	}
	return nil
}

// Disconnect 断开MQTT连接
func (s *NotificationService) Disconnect() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

// SendOTP 投递一封OTP邮件。验证码本身不落日志。
func (s *NotificationService) SendOTP(email, code string) error {
	if s.client == nil {
		logger.Info("OTP已生成，等待下发到 %s（降级模式）", email)
		return nil
	}

	payload, err := json.Marshal(otpMessage{
		Type:      "admin_stepup_otp",
		Email:     email,
		Code:      code,
		App:       "Grojet Admin",
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	token := s.client.Publish(topicEmailDispatch, byte(s.cfg.MQTTQoS), false, payload)
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		return fmt.Errorf("发布OTP邮件消息失败: %w", token.Error())
	}

	logger.Info("OTP邮件已投递到通知网关: %s", email)
	return nil
}
