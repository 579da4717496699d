// File: /controllers/user_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"skillsync-api/models"
	"skillsync-api/utils"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// GetProfile returns the authenticated user's own profile
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := uc.db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileRequest struct {
	Name              *string  `json:"name"`
	Bio               *string  `json:"bio"`
	Avatar            *string  `json:"avatar"`
	SkillsTeaching    []string `json:"skills_teaching"`
	SkillsLearning    []string `json:"skills_learning"`
	AvailabilityTimes []string `json:"availability_times"`
}

// UpdateProfile applies partial profile updates. Availability labels must
// come from the shared time-slot catalog.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := uc.db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		if *req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
			return
		}
		updates["name"] = *req.Name
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}

	if req.SkillsTeaching != nil {
		for _, skill := range req.SkillsTeaching {
			if !utils.IsValidSkillName(skill) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill name"})
				return
			}
		}
		updates["skills_teaching"] = models.StringSlice(req.SkillsTeaching)
	}
	if req.SkillsLearning != nil {
		for _, skill := range req.SkillsLearning {
			if !utils.IsValidSkillName(skill) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill name"})
				return
			}
		}
		updates["skills_learning"] = models.StringSlice(req.SkillsLearning)
	}
	if req.AvailabilityTimes != nil {
		for _, slot := range req.AvailabilityTimes {
			if !models.IsValidTimeSlot(slot) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid availability time slot: " + slot})
				return
			}
		}
		updates["availability_times"] = models.StringSlice(req.AvailabilityTimes)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update", "user": user})
		return
	}

	if err := uc.db.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	// Re-read so the response reflects the stored state
	if err := uc.db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch updated profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

// GetUser returns another user's public profile
func (uc *UserController) GetUser(c *gin.Context) {
	targetID := c.Param("user_id")

	var user models.User
	if err := uc.db.Where("id = ?", targetID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToPublic()})
}

// SearchUsers finds users teaching a given skill
func (uc *UserController) SearchUsers(c *gin.Context) {
	userID := c.GetString("user_id")
	skill := c.Query("skill")
	if skill == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Skill query parameter required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	// JSON column search; skills_teaching is a JSON array of strings
	query := uc.db.Model(&models.User{}).
		Where("id != ?", userID).
		Where("skills_teaching LIKE ?", "%"+skill+"%")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	var users []models.User
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	results := make([]models.PublicUser, len(users))
	for i, u := range users {
		results[i] = u.ToPublic()
	}

	utils.SendPaginated(c, results, page, limit, total)
}

// GetTimeSlots returns the bookable time-slot catalog
func (uc *UserController) GetTimeSlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"time_slots": models.AvailabilityTimeSlots})
}
