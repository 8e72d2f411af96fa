package ws

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go-acquire/dto"
	"go-acquire/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// 将 HTTP 请求升级为 WebSocket 连接
func upgradeConnection(c *gin.Context) (*websocket.Conn, error) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Log.Errorf("❌ WebSocket 升级失败: %v", err)
	}
	return conn, err
}

// HandleWebSocket WebSocket 主入口。客户端接入后第一条消息必须是 hello，
// 之后读泵把消息交给房间中枢，写泵串行下发并维持心跳
func HandleWebSocket(c *gin.Context) {
	conn, err := upgradeConnection(c)
	if err != nil {
		return
	}
	defer conn.Close()

	roomID := c.Query("roomID")
	hub := GetHub(roomID)
	if hub == nil {
		conn.WriteJSON(dto.ServerMessage{Type: dto.ServerError, Message: "房间不存在"})
		return
	}

	// 第一条消息必须是 hello，限时等待
	conn.SetReadDeadline(time.Now().Add(pongWait))
	var hello dto.ClientMessage
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != dto.ClientHello {
		conn.WriteJSON(dto.ServerMessage{Type: dto.ServerError, Message: "接入的第一条消息必须是 hello"})
		return
	}
	playerID := hello.PlayerID
	if playerID == "" {
		playerID = generateAnonymousPlayerID()
	}

	send := make(chan dto.ServerMessage, 256)
	reply := make(chan error)
	hub.join <- &joinRequest{playerID: playerID, send: send, reply: reply}
	if err := <-reply; err != nil {
		conn.WriteJSON(dto.ServerMessage{Type: dto.ServerError, Message: err.Error()})
		return
	}
	defer func() {
		hub.detach <- &detachRequest{playerID: playerID, send: send}
	}()

	go writePump(conn, send)
	readPump(conn, hub, playerID)
}

func readPump(conn *websocket.Conn, hub *Hub, playerID string) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		var msg dto.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			utils.Log.Infof("玩家 %s 连接断开: %v", playerID, err)
			return
		}
		hub.inbound <- inboundMessage{playerID: playerID, msg: msg}
	}
}

func writePump(conn *websocket.Conn, send chan dto.ServerMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// 生成匿名玩家ID
func generateAnonymousPlayerID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// 自定义 HookFunc，把字符串转换成 int
func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Int {
			return strconv.Atoi(data.(string))
		}
		return data, nil
	}
}
