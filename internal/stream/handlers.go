package stream

import (
	"encoding/json"
	"log"

	"backend-howmanybeds/internal/session"
	"backend-howmanybeds/internal/store"
	"backend-howmanybeds/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// IdentityResolver turns a bearer token into a session identity.
type IdentityResolver func(token string) (*session.Identity, error)

func RegisterRoutes(r fiber.Router, hub *Hub, users *user.Service, st *store.Store, resolve IdentityResolver) {
	r.Get("/ws/:collection", websocket.New(func(c *websocket.Conn) {
		client, err := hub.Register(c.Params("collection"))
		if err != nil || client == nil {
			if err != nil {
				log.Printf("stream: register %s: %v", c.Params("collection"), err)
			}
			return
		}
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		<-done
	}))

	r.Get("/session", websocket.New(func(c *websocket.Conn) {
		token := c.Query("token")

		provider := session.ProviderFunc(func(fn func(*session.Identity)) func() {
			identity, err := resolve(token)
			if err != nil {
				fn(nil)
			} else {
				fn(identity)
			}
			return func() {}
		})

		mgr := session.NewManager(provider, users, st)
		defer mgr.Close()

		states := make(chan session.State, 8)
		cancel := mgr.OnStateChanged(func(s session.State) {
			select {
			case states <- s:
			default:
			}
		})
		defer cancel()

		quit := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case s := <-states:
					payload, err := json.Marshal(s)
					if err != nil {
						log.Printf("stream: marshal session state: %v", err)
						continue
					}
					if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
						return
					}
				case <-quit:
					return
				}
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		close(quit)
		<-done
	}))
}
