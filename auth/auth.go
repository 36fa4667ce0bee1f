package auth

import (
	"chatwire/db"
	"chatwire/imagehost"
	"chatwire/models"
	"chatwire/mq"
	"chatwire/rdx"
	"chatwire/utils"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const genericServerError = "Internal server error"

type signupRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Bio           string `json:"bio"`
	AgreedToTerms bool   `json:"agreedToTerms"`
}

// Signup registers a new account and returns a signed token alongside
// the created user record.
func Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	var body signupRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.FullName == "" || body.Email == "" || body.Password == "" || body.Bio == "" || !body.AgreedToTerms {
		utils.RespondWithError(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	count, err := db.UserCollection.CountDocuments(ctx, bson.M{"email": body.Email})
	if err != nil {
		log.Error().Err(err).Msg("signup: email lookup failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "An account with this email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("signup: password hash failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}

	now := time.Now()
	user := models.User{
		FullName:      body.FullName,
		Email:         body.Email,
		Password:      string(hashed),
		Bio:           body.Bio,
		AgreedToTerms: body.AgreedToTerms,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	res, err := db.UserCollection.InsertOne(ctx, user)
	if err != nil {
		// The unique email index closes the check-then-insert race.
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "An account with this email already exists.")
			return
		}
		log.Error().Err(err).Msg("signup: insert failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	token, err := GenerateToken(user.ID.Hex())
	if err != nil {
		log.Error().Err(err).Msg("signup: token generation failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}

	mq.Emit("user-registered", mq.Index{EntityType: "user", Method: "POST", EntityId: user.ID.Hex()})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":  true,
		"userData": user,
		"token":    token,
		"message":  "Account created successfully.",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a fresh token. Unknown email and
// wrong password produce the same response.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": body.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login: user lookup failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := GenerateToken(user.ID.Hex())
	if err != nil {
		log.Error().Err(err).Msg("login: token generation failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"userData": user,
		"token":    token,
		"message":  "Login successful.",
	})
}

// CheckAuth returns the authenticated user's record. The client calls this
// on load and forces a local logout when it fails.
func CheckAuth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	userID, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(ctx))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid session.")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid session.")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "user": user})
}

type updateProfileRequest struct {
	FullName   string `json:"fullName"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profilePic"`
}

// UpdateProfile edits bio and full name, and optionally replaces the
// profile picture with a data-URI upload pushed through the image host.
func UpdateProfile(store imagehost.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx := r.Context()

		userID, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(ctx))
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid session.")
			return
		}

		var body updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		update := bson.M{
			"fullName":  body.FullName,
			"bio":       body.Bio,
			"updatedAt": time.Now(),
		}
		if body.ProfilePic != "" {
			url, err := store.Upload(ctx, body.ProfilePic)
			if err != nil {
				log.Error().Err(err).Msg("update-profile: picture upload failed")
				utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
				return
			}
			update["profilePic"] = url
		}

		var user models.User
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = db.UserCollection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": update}, opts).Decode(&user)
		if err != nil {
			log.Error().Err(err).Msg("update-profile: update failed")
			utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
			return
		}

		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success": true,
			"user":    user,
			"message": "Profile updated successfully.",
		})
	}
}

// Logout blacklists the presented token until it would have expired anyway.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	token := utils.GetTokenFromContext(ctx)
	claims, err := ValidateToken(token)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid session.")
		return
	}

	if err := rdx.RevokeToken(ctx, token, time.Until(claims.ExpiresAt.Time)); err != nil {
		log.Error().Err(err).Msg("logout: token revocation failed")
		utils.RespondWithError(w, http.StatusInternalServerError, genericServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Logged out."})
}
