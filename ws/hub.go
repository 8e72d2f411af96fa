package ws

import (
	"fmt"
	"sync"
	"time"

	"go-acquire/dto"
	"go-acquire/game"
	"go-acquire/utils"

	"github.com/mitchellh/mapstructure"
)

// Hubs 房间 -> 主机中枢
var (
	Hubs    = make(map[string]*Hub)
	hubLock sync.Mutex
)

func GetHub(roomID string) *Hub {
	hubLock.Lock()
	defer hubLock.Unlock()
	return Hubs[roomID]
}

func CreateHub(roomID string, maxPlayers int) *Hub {
	h := &Hub{
		RoomID:     roomID,
		MaxPlayers: maxPlayers,
		inbound:    make(chan inboundMessage, 64),
		join:       make(chan *joinRequest),
		detach:     make(chan *detachRequest),
		quit:       make(chan struct{}),
	}
	hubLock.Lock()
	Hubs[roomID] = h
	hubLock.Unlock()
	go h.run()
	return h
}

func AllHubs() []*Hub {
	hubLock.Lock()
	defer hubLock.Unlock()
	hubs := make([]*Hub, 0, len(Hubs))
	for _, h := range Hubs {
		hubs = append(hubs, h)
	}
	return hubs
}

func RemoveHub(roomID string) {
	hubLock.Lock()
	h := Hubs[roomID]
	delete(Hubs, roomID)
	hubLock.Unlock()
	if h != nil {
		close(h.quit)
	}
}

// Slot 房间内的一个座位。开局后掉线只标记离线，座位保留等待重连
type Slot struct {
	PlayerID string
	Online   bool
	send     chan dto.ServerMessage
}

type joinRequest struct {
	playerID string
	send     chan dto.ServerMessage
	reply    chan error
}

type detachRequest struct {
	playerID string
	send     chan dto.ServerMessage
}

type inboundMessage struct {
	playerID string
	msg      dto.ClientMessage
}

// Hub 一个房间的主机中枢。所有状态变更都在 run 这一个 goroutine 里
// 串行处理：校验操作、落地事件、再按同一顺序广播给所有副本
type Hub struct {
	RoomID     string
	MaxPlayers int

	session *game.Session
	slots   []*Slot

	inbound chan inboundMessage
	join    chan *joinRequest
	detach  chan *detachRequest
	quit    chan struct{}

	mu sync.Mutex // 保护 slots 切片与座位在线状态的跨 goroutine 访问

	// OnGameEnd 终局回调，用于落盘战绩
	OnGameEnd func(*game.Session)
}

// Session 仅供测试与终局回调读取
func (h *Hub) Session() *game.Session {
	return h.session
}

// Started 游戏是否已经开局
func (h *Hub) Started() bool {
	return h.session != nil
}

// Players 当前各座位的在线情况
func (h *Hub) Players() []dto.RoomPlayer {
	h.mu.Lock()
	defer h.mu.Unlock()
	var players []dto.RoomPlayer
	for _, slot := range h.slots {
		players = append(players, dto.RoomPlayer{PlayerID: slot.PlayerID, Online: slot.Online})
	}
	return players
}

func (h *Hub) run() {
	for {
		select {
		case req := <-h.join:
			req.reply <- h.handleJoin(req)
		case req := <-h.detach:
			h.handleDetach(req)
		case in := <-h.inbound:
			h.handleMessage(in.playerID, in.msg)
		case <-h.quit:
			for _, slot := range h.slots {
				close(slot.send)
			}
			return
		}
	}
}

func (h *Hub) slotOf(playerID string) *Slot {
	for _, slot := range h.slots {
		if slot.PlayerID == playerID {
			return slot
		}
	}
	return nil
}

func (h *Hub) handleJoin(req *joinRequest) error {
	if slot := h.slotOf(req.playerID); slot != nil {
		// 重连：换上新连接并补发快照
		h.mu.Lock()
		slot.send = req.send
		slot.Online = true
		h.mu.Unlock()
		utils.Log.Infof("✅ 玩家 %s 重连房间 %s", req.playerID, h.RoomID)
		h.sendWelcome(slot)
		return nil
	}
	if h.session != nil {
		return fmt.Errorf("游戏已开始，房间不接受新玩家")
	}
	if len(h.slots) >= h.MaxPlayers {
		return fmt.Errorf("房间已满")
	}

	slot := &Slot{PlayerID: req.playerID, Online: true, send: req.send}
	h.mu.Lock()
	h.slots = append(h.slots, slot)
	h.mu.Unlock()
	utils.Log.Infof("✅ 玩家 %s 加入房间 %s（%d/%d）", req.playerID, h.RoomID, len(h.slots), h.MaxPlayers)
	h.sendWelcome(slot)

	if len(h.slots) == h.MaxPlayers {
		h.startGame()
	}
	return nil
}

func (h *Hub) startGame() {
	names := make([]string, 0, len(h.slots))
	for _, slot := range h.slots {
		names = append(names, slot.PlayerID)
	}
	h.session = game.NewSession(h.RoomID, names, uint64(time.Now().UnixNano()))
	utils.Log.Infof("✅ 房间 %s 人齐开局，先手 %s", h.RoomID, names[0])

	snap := h.session.Snapshot()
	for _, slot := range h.slots {
		h.push(slot, dto.ServerMessage{Type: dto.ServerSnapshot, Snapshot: snap})
	}
}

func (h *Hub) sendWelcome(slot *Slot) {
	msg := dto.ServerMessage{Type: dto.ServerWelcome, PlayerID: slot.PlayerID}
	if h.session != nil {
		msg.Snapshot = h.session.Snapshot()
	}
	h.push(slot, msg)
}

func (h *Hub) handleDetach(req *detachRequest) {
	slot := h.slotOf(req.playerID)
	if slot == nil || slot.send != req.send {
		return
	}
	h.mu.Lock()
	slot.Online = false
	h.mu.Unlock()
	utils.Log.Warnf("⚠️ 玩家 %s 掉线，保留座位等待重连", req.playerID)
	if h.session == nil {
		// 未开局直接让出座位
		for i, s := range h.slots {
			if s == slot {
				h.mu.Lock()
				h.slots = append(h.slots[:i], h.slots[i+1:]...)
				h.mu.Unlock()
				break
			}
		}
	}
}

func (h *Hub) handleMessage(playerID string, msg dto.ClientMessage) {
	slot := h.slotOf(playerID)
	if slot == nil {
		return
	}

	switch msg.Type {
	case dto.ClientSnapshotRequest:
		if h.session == nil {
			h.push(slot, dto.ServerMessage{Type: dto.ServerError, Message: "游戏尚未开始"})
			return
		}
		h.push(slot, dto.ServerMessage{Type: dto.ServerSnapshot, Snapshot: h.session.Snapshot()})

	case dto.ClientAction:
		h.handleAction(slot, msg)

	default:
		h.push(slot, dto.ServerMessage{Type: dto.ServerReject, Reject: &dto.Reject{
			ActionID: msg.ActionID,
			Reason:   dto.RejectMalformedMessage,
			Detail:   fmt.Sprintf("未知消息类型: %s", msg.Type),
		}})
	}
}

func (h *Hub) handleAction(slot *Slot, msg dto.ClientMessage) {
	reject := func(reason dto.RejectReason, detail string) {
		h.push(slot, dto.ServerMessage{Type: dto.ServerReject, Reject: &dto.Reject{
			ActionID: msg.ActionID,
			Reason:   reason,
			Detail:   detail,
		}})
	}

	if h.session == nil {
		reject(dto.RejectInvalidPhaseForAction, "游戏尚未开始")
		return
	}

	act, err := decodeAction(msg.Payload)
	if err != nil {
		utils.Log.Warnf("❌ 玩家 %s 的操作解码失败: %v", slot.PlayerID, err)
		reject(dto.RejectMalformedMessage, err.Error())
		return
	}

	events, err := h.session.Propose(slot.PlayerID, msg.ActionID, act)
	if err != nil {
		reason, ok := err.(dto.RejectReason)
		if !ok {
			reason = dto.RejectMalformedMessage
		}
		utils.Log.Infof("🚫 房间 %s 拒绝 %s 的 %s: %s", h.RoomID, slot.PlayerID, act.Kind, reason)
		reject(reason, "")
		return
	}

	if err := h.session.ApplyAll(events); err != nil {
		// 主机自身落地失败说明规则层出了内伤，直接报错给发起者
		utils.Log.Errorf("❌ 房间 %s 事件落地失败: %v", h.RoomID, err)
		h.push(slot, dto.ServerMessage{Type: dto.ServerError, Message: err.Error()})
		return
	}

	gameEnded := false
	for _, evt := range events {
		e := evt
		h.broadcast(dto.ServerMessage{Type: dto.ServerEvent, Event: &e})
		if evt.Kind == dto.EventGameEnded {
			gameEnded = true
		}
	}

	if gameEnded {
		utils.Log.Infof("✅ 房间 %s 对局结束，胜者 %v", h.RoomID, h.session.Log[len(h.session.Log)-1].Winners)
		if h.OnGameEnd != nil {
			go h.OnGameEnd(h.session)
		}
	}
}

func (h *Hub) broadcast(msg dto.ServerMessage) {
	for _, slot := range h.slots {
		if slot.Online {
			h.push(slot, msg)
		}
	}
}

// push 非阻塞下发；写不进去说明连接已僵死，标记离线等写泵收尸
func (h *Hub) push(slot *Slot, msg dto.ServerMessage) {
	select {
	case slot.send <- msg:
	default:
		h.mu.Lock()
		slot.Online = false
		h.mu.Unlock()
		utils.Log.Warnf("⚠️ 玩家 %s 发送队列已满，标记离线", slot.PlayerID)
	}
}

// decodeAction 把 payload 解码成操作，顺带把前端传来的字符串数字转成 int
func decodeAction(payload map[string]interface{}) (dto.Action, error) {
	var act dto.Action
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToIntHookFunc(),
		WeaklyTypedInput: true, // JSON 数字默认是 float64
		Result:           &act,
	})
	if err != nil {
		return act, err
	}
	if err := decoder.Decode(payload); err != nil {
		return act, fmt.Errorf("操作载荷解析失败: %w", err)
	}
	if act.Kind == "" {
		return act, fmt.Errorf("缺少操作类型")
	}
	return act, nil
}
