package realtime

import (
	"encoding/json"
	"log"
	"strconv"
)

// Relay routes inbound connection events to channels. Two channel families
// exist: the private identity channel (named after a user id, joined at
// setup, used for message delivery regardless of which chats the connection
// is watching) and chat channels (joined on demand, scoping ephemeral typing
// indicators to connections currently viewing that chat).
type Relay struct {
	registry *Registry

	// typingIncludesSender controls whether typing/stop typing broadcasts
	// reach the originating connection as well.
	typingIncludesSender bool
}

func NewRelay(registry *Registry, typingIncludesSender bool) *Relay {
	return &Relay{
		registry:             registry,
		typingIncludesSender: typingIncludesSender,
	}
}

func privateChannel(userID int) string { return "user:" + strconv.Itoa(userID) }
func chatChannel(chatID int) string    { return "chat:" + strconv.Itoa(chatID) }

type setupPayload struct {
	ID int `json:"id"`
}

// routing fields of an enriched message payload; the rest is opaque and
// forwarded untouched
type newMessagePayload struct {
	Chat *struct {
		Users []struct {
			ID int `json:"id"`
		} `json:"users"`
	} `json:"chat"`
	Sender *struct {
		ID int `json:"id"`
	} `json:"sender"`
}

// HandleEvent processes one inbound event from a connection. Fire-and-forget:
// nothing is ever surfaced back to the sender except the `connected` ack.
func (r *Relay) HandleEvent(s Session, ev Event) {
	switch ev.Name {
	case EventSetup:
		var p setupPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.ID == 0 {
			log.Printf("[relay][setup] malformed payload, dropping: %v", err)
			eventsDropped.WithLabelValues("setup_malformed").Inc()
			return
		}
		r.registry.Join(privateChannel(p.ID), s)
		if err := s.Send(Event{Name: EventConnected}); err != nil {
			log.Printf("[relay][setup] connected ack failed: %v", err)
		}
		eventsRelayed.WithLabelValues(EventSetup).Inc()

	case EventJoinChat:
		chatID, ok := r.chatID(ev)
		if !ok {
			return
		}
		r.registry.Join(chatChannel(chatID), s)
		eventsRelayed.WithLabelValues(EventJoinChat).Inc()

	case EventTyping, EventStopTyping:
		chatID, ok := r.chatID(ev)
		if !ok {
			return
		}
		except := s
		if r.typingIncludesSender {
			except = nil
		}
		r.registry.Broadcast(chatChannel(chatID), Event{Name: ev.Name, Data: ev.Data}, except)
		eventsRelayed.WithLabelValues(ev.Name).Inc()

	case EventNewMessage:
		r.handleNewMessage(ev)

	default:
		log.Printf("[relay] unknown event %q, dropping", ev.Name)
		eventsDropped.WithLabelValues("unknown_event").Inc()
	}
}

// handleNewMessage fans the enriched message out to the private channel of
// every chat member except the sender. The payload is forwarded as received;
// only the routing fields are inspected. A payload without chat.users is
// dropped silently apart from the log line and counter.
func (r *Relay) handleNewMessage(ev Event) {
	var p newMessagePayload
	if err := json.Unmarshal(ev.Data, &p); err != nil {
		log.Printf("[relay][new message] malformed payload, dropping: %v", err)
		eventsDropped.WithLabelValues("message_malformed").Inc()
		return
	}
	if p.Chat == nil || len(p.Chat.Users) == 0 {
		log.Printf("[relay][new message] chat.users not defined, dropping")
		eventsDropped.WithLabelValues("message_no_users").Inc()
		return
	}

	senderID := 0
	if p.Sender != nil {
		senderID = p.Sender.ID
	}
	out := Event{Name: EventMessageReceived, Data: ev.Data}
	for _, user := range p.Chat.Users {
		if user.ID == senderID {
			continue
		}
		r.registry.Broadcast(privateChannel(user.ID), out, nil)
	}
	eventsRelayed.WithLabelValues(EventNewMessage).Inc()
}

// Disconnect drops every channel membership of the session. Invoked by the
// transport on connection termination; there is no application-level cleanup
// beyond this.
func (r *Relay) Disconnect(s Session) {
	r.registry.LeaveAll(s)
}

func (r *Relay) chatID(ev Event) (int, bool) {
	var chatID int
	if err := json.Unmarshal(ev.Data, &chatID); err != nil || chatID == 0 {
		log.Printf("[relay][%s] malformed chat id, dropping: %v", ev.Name, err)
		eventsDropped.WithLabelValues("bad_chat_id").Inc()
		return 0, false
	}
	return chatID, true
}
