package camera

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// temperatureSample is one reading pushed on the websocket stream
type temperatureSample struct {
	// Temp is the focal plane temperature in Celsius
	Temp float64 `json:"temp"`

	// Time is the moment the reading was taken
	Time time.Time `json:"time"`
}

// StreamTemperature upgrades the connection to a websocket and pushes
// focal plane temperature readings at the wrapper's StreamInterval until
// the client goes away or a device error occurs.
func (h *HTTPCamera) StreamTemperature(t ThermalManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		lim := rate.NewLimiter(rate.Every(h.StreamInterval), 1)
		for {
			if err := lim.Wait(r.Context()); err != nil {
				return
			}
			temp, err := t.GetTemperature()
			if err != nil {
				log.Printf("temperature stream: %v", err)
				return
			}
			err = conn.WriteJSON(temperatureSample{Temp: temp, Time: time.Now().UTC()})
			if err != nil {
				return
			}
		}
	}
}
