package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"go-acquire/dto"
	"go-acquire/game"
	"go-acquire/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client 远端副本。被动跟随主机事件流：按 Seq 顺序重放事件，
// 发现跳号立即请求快照重建，自己发出的操作通过回执对账
type Client struct {
	PlayerID string

	conn    *websocket.Conn
	session *game.Session

	mu        sync.Mutex
	pending   map[string]chan error // actionID -> 操作结果
	requested bool                  // 快照是否已在路上

	// OnEvent 每应用一个事件后的回调，供界面刷新
	OnEvent func(dto.Event)
}

// Dial 连接主机并完成 hello 握手。playerID 为空时由主机分配
func Dial(url, playerID string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("连接主机失败: %w", err)
	}
	c := &Client{
		PlayerID: playerID,
		conn:     conn,
		pending:  make(map[string]chan error),
	}
	if err := conn.WriteJSON(dto.ClientMessage{Type: dto.ClientHello, PlayerID: playerID}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("发送 hello 失败: %w", err)
	}
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Session 当前副本状态，快照到达前为 nil
func (c *Client) Session() *game.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Run 读循环，连接断开后返回
func (c *Client) Run() error {
	for {
		var msg dto.ServerMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return err
		}
		c.handle(msg)
	}
}

// Do 提交一个操作并返回其 actionID，结果经返回的通道送达：
// nil 表示主机已确认，RejectReason 表示被否决
func (c *Client) Do(act dto.Action) (string, chan error, error) {
	actionID := uuid.New().String()
	payload, err := actionPayload(act)
	if err != nil {
		return "", nil, err
	}

	result := make(chan error, 1)
	c.mu.Lock()
	c.pending[actionID] = result
	c.mu.Unlock()

	err = c.conn.WriteJSON(dto.ClientMessage{
		Type:     dto.ClientAction,
		PlayerID: c.PlayerID,
		ActionID: actionID,
		Payload:  payload,
	})
	if err != nil {
		c.mu.Lock()
		delete(c.pending, actionID)
		c.mu.Unlock()
		return "", nil, fmt.Errorf("提交操作失败: %w", err)
	}
	return actionID, result, nil
}

func (c *Client) handle(msg dto.ServerMessage) {
	switch msg.Type {
	case dto.ServerWelcome:
		c.PlayerID = msg.PlayerID
		if msg.Snapshot != nil {
			c.restore(msg.Snapshot)
		}

	case dto.ServerSnapshot:
		c.restore(msg.Snapshot)

	case dto.ServerEvent:
		c.handleEvent(*msg.Event)

	case dto.ServerReject:
		c.settle(msg.Reject.ActionID, msg.Reject.Reason)

	case dto.ServerError:
		utils.Log.Errorf("❌ 主机报错: %s", msg.Message)
	}
}

func (c *Client) restore(snap *dto.Snapshot) {
	c.mu.Lock()
	c.session = game.Restore(snap)
	c.requested = false
	c.mu.Unlock()
	utils.Log.Infof("✅ 副本从快照重建，seq=%d", snap.Seq)
}

func (c *Client) handleEvent(evt dto.Event) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		c.requestSnapshot()
		return
	}

	if evt.Seq <= s.Seq {
		// 重复事件，丢弃
		return
	}
	if evt.Seq > s.Seq+1 {
		utils.Log.Warnf("⚠️ 副本落后（本地 seq=%d，收到 seq=%d），请求快照", s.Seq, evt.Seq)
		c.requestSnapshot()
		return
	}

	if err := s.Apply(evt); err != nil {
		utils.Log.Errorf("❌ 副本应用事件失败: %v", err)
		c.requestSnapshot()
		return
	}
	if evt.ActionID != "" {
		c.settle(evt.ActionID, nil)
	}
	if c.OnEvent != nil {
		c.OnEvent(evt)
	}
}

// requestSnapshot 请求快照重建，快照到达前不重复请求
func (c *Client) requestSnapshot() {
	c.mu.Lock()
	already := c.requested
	c.requested = true
	c.mu.Unlock()
	if already {
		return
	}
	if err := c.conn.WriteJSON(dto.ClientMessage{Type: dto.ClientSnapshotRequest, PlayerID: c.PlayerID}); err != nil {
		utils.Log.Errorf("❌ 请求快照失败: %v", err)
	}
}

func (c *Client) settle(actionID string, reason error) {
	c.mu.Lock()
	result, ok := c.pending[actionID]
	if ok {
		delete(c.pending, actionID)
	}
	c.mu.Unlock()
	if ok {
		result <- reason
	}
}

// actionPayload 操作结构转成通用载荷
func actionPayload(act dto.Action) (map[string]interface{}, error) {
	raw, err := json.Marshal(act)
	if err != nil {
		return nil, err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
