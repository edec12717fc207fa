package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// 通话事件类型
const (
	CallEventCreated = "created"
	CallEventUpdated = "updated"
	CallEventDeleted = "deleted"
)

// InterfaceCallEventPublisher 定义通话变更事件发布接口
type InterfaceCallEventPublisher interface {
	Connect() error
	Disconnect()
	PublishCallEvent(event string, actor models.Caller, call models.CallView)
}

// CallEventMessage 通话事件消息
type CallEventMessage struct {
	Event     string          `json:"event"`
	ActorID   string          `json:"actorId"`
	ActorRole models.Role     `json:"actorRole"`
	Call      models.CallView `json:"call"`
	Timestamp int64           `json:"timestamp"`
}

// NewCallEventPublisher 根据配置创建事件发布器，未启用MQTT时返回空实现
func NewCallEventPublisher(cfg *config.Config) InterfaceCallEventPublisher {
	if !cfg.MQTTEnabled {
		return NoopEventPublisher{}
	}
	return NewMQTTEventPublisher(cfg)
}

// NoopEventPublisher 不发布任何事件
type NoopEventPublisher struct{}

func (NoopEventPublisher) Connect() error { return nil }

func (NoopEventPublisher) Disconnect() {}

func (NoopEventPublisher) PublishCallEvent(string, models.Caller, models.CallView) {}

// MQTTEventPublisher 通过MQTT发布通话事件
type MQTTEventPublisher struct {
	Client      mqtt.Client
	BrokerURL   string
	TopicPrefix string
	QoS         byte
}

// NewMQTTEventPublisher 创建MQTT事件发布器
func NewMQTTEventPublisher(cfg *config.Config) *MQTTEventPublisher {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	// 添加用户名和密码
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		Logger.Warning("[MQTT] 连接丢失: %v", err)
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		Logger.Info("[MQTT] 成功连接到 %s", cfg.MQTTBrokerURL)
	})

	return &MQTTEventPublisher{
		Client:      mqtt.NewClient(opts),
		BrokerURL:   cfg.MQTTBrokerURL,
		TopicPrefix: cfg.MQTTTopicPrefix,
		QoS:         byte(cfg.MQTTQoS),
	}
}

// Connect 连接到MQTT服务器
func (p *MQTTEventPublisher) Connect() error {
	Logger.Info("[MQTT] 正在连接到 %s...", p.BrokerURL)
	token := p.Client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt connect timeout: %s", p.BrokerURL)
	}
	return token.Error()
}

// Disconnect 断开MQTT连接
func (p *MQTTEventPublisher) Disconnect() {
	if p.Client.IsConnected() {
		p.Client.Disconnect(250)
	}
}

// Topic 事件对应的主题
func (p *MQTTEventPublisher) Topic(event string) string {
	return p.TopicPrefix + "/calls/" + event
}

// PublishCallEvent 异步发布通话事件，失败只记录日志
func (p *MQTTEventPublisher) PublishCallEvent(event string, actor models.Caller, call models.CallView) {
	if !p.Client.IsConnected() {
		Logger.Warning("[MQTT] 未连接，丢弃通话事件 %s: %s", event, call.ID)
		return
	}

	payload, err := json.Marshal(CallEventMessage{
		Event:     event,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Call:      call,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		Logger.Error("[MQTT] 序列化通话事件失败: %v", err)
		return
	}

	topic := p.Topic(event)
	token := p.Client.Publish(topic, p.QoS, false, payload)
	go func() {
		if !token.WaitTimeout(5 * time.Second) {
			Logger.Warning("[MQTT] 发布超时: topic=%s", topic)
			return
		}
		if err := token.Error(); err != nil {
			Logger.Error("[MQTT] 发布失败: topic=%s, err=%v", topic, err)
		}
	}()
}
