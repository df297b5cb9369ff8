package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harryyking/unhooked-sub000/models"
	"github.com/harryyking/unhooked-sub000/utils"
)

// InviteController mints and redeems partner invite codes and lists the
// resulting accountability partnerships.
type InviteController struct {
	db *gorm.DB
}

// NewInviteController creates a new controller instance.
func NewInviteController(db *gorm.DB) *InviteController {
	return &InviteController{db: db}
}

// Redemption failures surfaced verbatim to the UI.
var (
	errInviteNotFound   = errors.New("invite code not found")
	errInviteUsed       = errors.New("invite code has already been used")
	errInviteOwnCode    = errors.New("you cannot redeem your own invite code")
	errAlreadyPartnered = errors.New("you are already partnered with this user")
)

// GenerateInvite returns the caller's outstanding unused code, minting a new
// one only when none exists.
func (i *InviteController) GenerateInvite(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if err := requireUser(i.db, userID); err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var existing models.Invite
	err := i.db.Where("inviter_id = ? AND used_by_id IS NULL", userID).First(&existing).Error
	if err == nil {
		utils.Success(ctx, gin.H{"code": existing.Code})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to look up invite")
		return
	}

	// Retry on the unlikely unique-code collision.
	for attempt := 0; attempt < 3; attempt++ {
		invite := models.Invite{Code: utils.GenerateInviteCode(), InviterID: userID}
		if err := i.db.Create(&invite).Error; err == nil {
			utils.Success(ctx, gin.H{"code": invite.Code})
			return
		}
	}
	utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to create invite")
}

// RedeemInvite validates a code and links the caller to its inviter. The
// used-marker update and the partnership insert run in one transaction, and
// marking is guarded by a used_by_id IS NULL condition so concurrent
// redemptions of the same code succeed at most once.
func (i *InviteController) RedeemInvite(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if err := requireUser(i.db, userID); err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var inviterID uint
	err := i.db.Transaction(func(tx *gorm.DB) error {
		var invite models.Invite
		if err := tx.Where("code = ?", code).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInviteNotFound
			}
			return err
		}
		if invite.UsedByID != nil {
			return errInviteUsed
		}
		if invite.InviterID == userID {
			return errInviteOwnCode
		}
		if err := partnershipExists(tx, invite.InviterID, userID); err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Invite{}).
			Where("id = ? AND used_by_id IS NULL", invite.ID).
			Updates(map[string]interface{}{"used_by_id": userID, "used_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInviteUsed
		}

		inviterID = invite.InviterID
		return tx.Create(&models.Partnership{
			UserAID: invite.InviterID,
			UserBID: userID,
			Status:  models.PartnershipAccepted,
		}).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errInviteNotFound):
			utils.Error(ctx, http.StatusBadRequest, 40051, err.Error())
		case errors.Is(err, errInviteUsed):
			utils.Error(ctx, http.StatusBadRequest, 40052, err.Error())
		case errors.Is(err, errInviteOwnCode):
			utils.Error(ctx, http.StatusBadRequest, 40053, err.Error())
		case errors.Is(err, errAlreadyPartnered):
			utils.Error(ctx, http.StatusBadRequest, 40054, err.Error())
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to redeem invite")
		}
		return
	}

	utils.Success(ctx, gin.H{"success": true, "inviterId": inviterID})
}

// ListPartners returns the caller's partners with their live streaks.
func (i *InviteController) ListPartners(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var partnerships []models.Partnership
	if err := i.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).Find(&partnerships).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load partnerships")
		return
	}

	var partnerIDs []uint
	for _, p := range partnerships {
		if p.UserAID == userID {
			partnerIDs = append(partnerIDs, p.UserBID)
		} else {
			partnerIDs = append(partnerIDs, p.UserAID)
		}
	}
	partnerIDs = utils.UniqueUint(partnerIDs)

	items := make([]gin.H, 0, len(partnerIDs))
	if len(partnerIDs) > 0 {
		var partners []models.User
		if err := i.db.Find(&partners, partnerIDs).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to load partners")
			return
		}
		for _, partner := range partners {
			streak, err := currentStreak(i.db, partner.ID)
			if err != nil {
				utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to compute streak")
				return
			}
			items = append(items, gin.H{
				"username":      partner.Username,
				"currentStreak": streak,
			})
		}
	}

	utils.Success(ctx, gin.H{"items": items})
}

// partnershipExists returns errAlreadyPartnered when a and b are already
// linked in either direction.
func partnershipExists(tx *gorm.DB, a, b uint) error {
	var count int64
	err := tx.Model(&models.Partnership{}).
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return errAlreadyPartnered
	}
	return nil
}

// requireUser enforces the strict provisioning rule: the caller must have
// been created at sign-up.
func requireUser(db *gorm.DB, userID uint) error {
	var user models.User
	return db.Select("id").First(&user, userID).Error
}
