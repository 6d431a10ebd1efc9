package ingest

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"twinpics/internal/model"
)

type telegramMessage struct {
	ID     *json.Number `json:"_id"`
	FromID *struct {
		UserID *json.Number `json:"user_id"`
	} `json:"from_id"`
	ReplyTo *struct {
		MsgID *json.Number `json:"reply_to_msg_id"`
	} `json:"reply_to"`
	Message *string `json:"message"`
	Date    string  `json:"date"`
}

type telegramParticipant struct {
	ID        *json.Number `json:"_id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Username  string       `json:"username"`
}

// DecodeTelegram reads a Telegram message dump and its participant dump.
// Authors are identified by user id; a reply gets the author of the message
// it answers when that message is in the dump. Accounts follow participant
// order, then authors missing from the participant dump.
func DecodeTelegram(msgs io.Reader, msgSource string, participants io.Reader, partSource string) (Batch, error) {
	var b Batch
	seen := make(map[string]bool)

	if participants != nil {
		err := decodeRecords(participants, partSource, func(i int, raw json.RawMessage) error {
			var p telegramParticipant
			if err := json.Unmarshal(raw, &p); err != nil {
				return &SchemaError{Source: partSource, Index: i, Field: "record", Reason: err.Error()}
			}
			if p.ID == nil {
				return missing(partSource, i, "_id")
			}
			// names must be present; null is a blank name
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(raw, &fields); err != nil {
				return &SchemaError{Source: partSource, Index: i, Field: "record", Reason: err.Error()}
			}
			for _, name := range []string{"first_name", "last_name"} {
				if _, ok := fields[name]; !ok {
					return missing(partSource, i, name)
				}
			}
			handle := p.ID.String()
			if seen[handle] {
				return nil
			}
			seen[handle] = true
			b.Accounts = append(b.Accounts, model.Account{
				Handle:      handle,
				DisplayName: strings.TrimSpace(p.FirstName + " " + p.LastName),
				HasEmptyBio: true,
			})
			return nil
		})
		if err != nil {
			return Batch{}, err
		}
	}

	authorOf := make(map[string]string)
	replyTo := make([]string, 0)
	err := decodeRecords(msgs, msgSource, func(i int, raw json.RawMessage) error {
		var m telegramMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return &SchemaError{Source: msgSource, Index: i, Field: "record", Reason: err.Error()}
		}
		if m.ID == nil {
			return missing(msgSource, i, "_id")
		}
		if m.FromID == nil || m.FromID.UserID == nil {
			return missing(msgSource, i, "from_id.user_id")
		}
		if m.Message == nil {
			return missing(msgSource, i, "message")
		}
		var ts time.Time
		if m.Date != "" {
			t, err := ParseTime(m.Date)
			if err != nil {
				return &SchemaError{Source: msgSource, Index: i, Field: "date", Reason: err.Error()}
			}
			ts = t
		}
		id, author := m.ID.String(), m.FromID.UserID.String()
		authorOf[id] = author
		reply := ""
		if m.ReplyTo != nil && m.ReplyTo.MsgID != nil {
			reply = m.ReplyTo.MsgID.String()
		}
		replyTo = append(replyTo, reply)
		b.Messages = append(b.Messages, model.Message{
			ID:               id,
			AuthorHandle:     author,
			Text:             *m.Message,
			CreatedAt:        ts,
			ReplyToMessageID: reply,
		})
		if !seen[author] {
			seen[author] = true
			b.Accounts = append(b.Accounts, model.Account{Handle: author, HasEmptyBio: true})
		}
		return nil
	})
	if err != nil {
		return Batch{}, err
	}
	for i := range b.Messages {
		if replyTo[i] != "" {
			b.Messages[i].ReplyToAuthorHandle = authorOf[replyTo[i]]
		}
	}
	return b, nil
}
