package messages

import (
	"chatwire/imagehost"
	"chatwire/models"
	"chatwire/mq"
	"chatwire/realtime"
	"chatwire/utils"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const genericServerError = "Internal server error"

// GetContactsOrConversation dispatches GET /api/messages/:id. The sidebar
// endpoint lives on the literal path /api/messages/users, which httprouter
// cannot register next to the :id wildcard, so the split happens here.
func GetContactsOrConversation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") == "users" {
		GetContacts(w, r, ps)
		return
	}
	GetConversation(w, r, ps)
}

// GetContacts returns every other user plus, per contact, how many of
// their messages to the caller are still unseen. Counts are recomputed in
// full on every call; correct under concurrent sends, no counter to drift.
func GetContacts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	myID, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(ctx))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid session.")
		return
	}

	users, err := store.Contacts(ctx, myID)
	if err != nil {
		log.Error().Err(err).Msg("contacts: user query failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}
	if users == nil {
		users = make([]models.User, 0)
	}

	unseen := make(map[string]int64)
	for _, u := range users {
		count, err := store.CountUnseen(ctx, u.ID, myID)
		if err != nil {
			log.Error().Err(err).Str("contact", u.ID.Hex()).Msg("contacts: unseen count failed")
			utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
			return
		}
		if count > 0 {
			unseen[u.ID.Hex()] = count
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"users":     users,
		"unseenMsg": unseen,
	})
}

// GetConversation returns the full two-way history with one contact, then
// flips that contact's unseen messages to seen. The response is built from
// the pre-flip fetch, so it can still carry seen:false for messages this
// very call reconciles; the client renders them as read in the same view.
func GetConversation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()

	myID, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(ctx))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid session.")
		return
	}
	otherID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id.")
		return
	}

	msgs, err := store.Conversation(ctx, myID, otherID)
	if err != nil {
		log.Error().Err(err).Msg("conversation: query failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}
	if msgs == nil {
		msgs = make([]models.Message, 0)
	}

	// Bulk-on-open reconciliation: everything this contact sent that the
	// caller had not seen is now seen.
	if err := store.MarkConversationSeen(ctx, otherID, myID); err != nil {
		log.Error().Err(err).Msg("conversation: mark seen failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "messages": msgs})
}

// MarkMessageSeen flips one message to seen. The client fires this when a
// live message lands in the currently open conversation; re-marking an
// already-seen message is a no-op.
func MarkMessageSeen(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()

	msgID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid message id.")
		return
	}

	if err := store.MarkSeen(ctx, msgID); err != nil {
		log.Error().Err(err).Msg("mark seen: update failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

type sendRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// validateSend enforces the message invariant: at least one of text/image.
func validateSend(body sendRequest) error {
	if body.Text == "" && body.Image == "" {
		return errEmptyMessage
	}
	return nil
}

var errEmptyMessage = &payloadError{"Message needs text or an image."}

type payloadError struct{ msg string }

func (e *payloadError) Error() string { return e.msg }

// SendMessage persists a message to the contact in the path, then hands it
// to the hub for a best-effort live push. An offline receiver gets nothing
// pushed and catches up on its next history fetch.
func SendMessage(hub *realtime.Hub, imgStore imagehost.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := r.Context()

		senderID, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(ctx))
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid session.")
			return
		}
		receiverID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id.")
			return
		}

		var body sendRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if err := validateSend(body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		var imageURL string
		if body.Image != "" {
			imageURL, err = imgStore.Upload(ctx, body.Image)
			if err != nil {
				log.Error().Err(err).Msg("send: image upload failed")
				utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
				return
			}
		}

		msg := models.Message{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Text:       body.Text,
			Image:      imageURL,
			Seen:       false,
			CreatedAt:  time.Now(),
		}
		msg, err = store.Insert(ctx, msg)
		if err != nil {
			log.Error().Err(err).Msg("send: insert failed")
			utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
			return
		}

		// Live push only after the message is durable. Payload is the
		// persisted record, same id and timestamp the history fetch returns.
		hub.PushToUser(receiverID.Hex(), realtime.EventNewMessage, msg)

		mq.Emit("message-sent", mq.Index{EntityType: "message", Method: "POST", EntityId: msg.ID.Hex()})

		utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "message": msg})
	}
}
