package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
	"github.com/mealrescue/marketplace-api/utils"
)

type AddressController struct {
	DB *gorm.DB
}

func NewAddressController(db *gorm.DB) *AddressController {
	return &AddressController{DB: db}
}

func (ac *AddressController) GetMyAddresses(c *gin.Context) {
	userID := c.GetUint("user_id")

	addresses := make([]models.UserAddress, 0)
	if err := ac.DB.Where("user_id = ?", userID).Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of addresses", addresses)
}

func (ac *AddressController) GetDefaultAddress(c *gin.Context) {
	userID := c.GetUint("user_id")

	var address models.UserAddress
	if err := ac.DB.Where("user_id = ? AND is_default = ?", userID, true).
		First(&address).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, &CustomError{"no default address found"})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Default address", address)
}

// CreateAddress inserts an address; setting it default clears the previous
// default in the same transaction so there is never more than one.
func (ac *AddressController) CreateAddress(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		Label       string   `json:"label"`
		AddressLine string   `json:"address_line" binding:"required"`
		City        string   `json:"city"`
		PostalCode  string   `json:"postal_code"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		IsDefault   bool     `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	address := models.UserAddress{
		UserID:      userID,
		Label:       req.Label,
		AddressLine: req.AddressLine,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsDefault:   req.IsDefault,
	}

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Address created", address)
}

func (ac *AddressController) UpdateAddress(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("address_id"))
	userID := c.GetUint("user_id")

	var address models.UserAddress
	if err := ac.DB.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Label       *string  `json:"label"`
		AddressLine *string  `json:"address_line"`
		City        *string  `json:"city"`
		PostalCode  *string  `json:"postal_code"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		IsDefault   *bool    `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Label != nil {
		address.Label = *req.Label
	}
	if req.AddressLine != nil {
		address.AddressLine = *req.AddressLine
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Latitude != nil {
		address.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		address.Longitude = req.Longitude
	}

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault && !address.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
			address.IsDefault = true
		}
		return tx.Save(&address).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Address updated", address)
}

func (ac *AddressController) DeleteAddress(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("address_id"))
	userID := c.GetUint("user_id")

	res := ac.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.UserAddress{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, &CustomError{"address not found"})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Address deleted", gin.H{"address_id": id})
}
