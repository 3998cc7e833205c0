// Package seed loads the demo dataset: one admin, country managers and
// members, and restaurants with menus in India, the USA and the UK.
package seed

import (
	"context"
	"errors"

	"food-ordering-api/auth"
	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrAlreadySeeded = errors.New("database already seeded")

type userRow struct {
	email, password, name string
	role                  models.UserRole
	country               string
}

var users = []userRow{
	{"nickfury@admin.com", "admin123", "Nick Fury", models.RoleAdmin, "USA"},
	{"captainmarvel@manager.com", "manager123", "Captain Marvel", models.RoleManager, "India"},
	{"captainamerica@manager.com", "manager123", "Captain America", models.RoleManager, "USA"},
	{"thanos@member.com", "member123", "Thanos", models.RoleMember, "India"},
	{"thor@member.com", "member123", "Thor", models.RoleMember, "India"},
	{"travis@member.com", "member123", "Travis", models.RoleMember, "USA"},
}

type menuRow struct {
	name, price, description string
}

type restaurantRow struct {
	name, country, description string
	menus                      []menuRow
}

var restaurants = []restaurantRow{
	{"Mumbai Masala", "India", "Authentic Indian Cuisine with rich flavors and aromatic spices", []menuRow{
		{"Butter Chicken", "320", "Creamy tomato-based curry with tender chicken pieces"},
		{"Chicken Biryani", "280", "Fragrant basmati rice cooked with marinated chicken"},
		{"Garlic Naan", "80", "Fresh-baked flatbread topped with garlic and butter"},
	}},
	{"Delhi Delights", "India", "North Indian Specialties featuring tandoori and curry dishes", []menuRow{
		{"Rogan Josh", "350", "Aromatic lamb curry cooked in Kashmiri style"},
		{"Tandoori Chicken", "320", "Clay oven-roasted chicken marinated in yogurt and spices"},
		{"Dal Makhani", "220", "Creamy black lentils slow-cooked with butter"},
	}},
	{"Bangalore Bistro", "India", "South Indian cuisine with dosas, idlis, and flavorful curries", []menuRow{
		{"Masala Dosa", "180", "Crispy rice crepe filled with spiced potato masala"},
		{"Idli Sambar", "120", "Steamed rice cakes served with lentil soup"},
		{"Filter Coffee", "60", "South Indian filter coffee with frothy milk"},
	}},
	{"New York Pizza", "USA", "Classic New York-style pizzas with hand-tossed dough", []menuRow{
		{"Pepperoni Pizza", "15.99", "Pepperoni and mozzarella on a thin crust"},
		{"Margherita Pizza", "13.99", "Tomato sauce, mozzarella, and basil leaves"},
		{"Buffalo Wings", "11.99", "Chicken wings tossed in spicy buffalo sauce"},
	}},
	{"Texas Burger House", "USA", "Premium burgers with fresh ingredients and bold flavors", []menuRow{
		{"Wagyu Burger", "18.99", "Wagyu beef patty with caramelized onions"},
		{"Loaded Fries", "7.99", "Fries topped with cheese, bacon, and ranch"},
		{"Chocolate Milkshake", "5.99", "Chocolate milkshake with whipped cream"},
	}},
	{"Chicago Steakhouse", "USA", "Prime cuts and classic American steakhouse favorites", []menuRow{
		{"Ribeye Steak", "34.99", "Prime 12oz ribeye with garlic mashed potatoes"},
		{"Lobster Tail", "42.99", "Broiled lobster tail with drawn butter"},
	}},
	{"London Fish & Chips", "UK", "Traditional British fish and chips with mushy peas", []menuRow{
		{"Classic Fish & Chips", "12.99", "Beer-battered cod with hand-cut chips"},
		{"Battered Sausage", "8.99", "British sausage in crispy batter"},
	}},
	{"Edinburgh Pub", "UK", "Classic pub fare with shepherd's pie and bangers", []menuRow{
		{"Shepherd's Pie", "14.99", "Ground lamb with vegetables under mashed potatoes"},
		{"Bangers & Mash", "13.99", "Pork sausages with mashed potatoes and gravy"},
	}},
}

type paymentRow struct {
	email, last4 string
	kind         models.PaymentType
}

var paymentMethods = []paymentRow{
	{"nickfury@admin.com", "4242", models.PaymentCreditCard},
	{"captainmarvel@manager.com", "5555", models.PaymentDebitCard},
	{"captainamerica@manager.com", "1881", models.PaymentCreditCard},
}

// Data indexes the seeded rows for callers that need their ids
type Data struct {
	Users       map[string]*models.User
	Restaurants map[string]*models.Restaurant
	Menus       map[string]*models.Menu
}

// Run inserts the dataset in one transaction. cost is the bcrypt cost for
// password hashes.
func Run(ctx context.Context, st *store.Store, cost int) (*Data, error) {
	if _, err := st.GetUserByEmail(ctx, users[0].email); err == nil {
		return nil, ErrAlreadySeeded
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	data := &Data{
		Users:       make(map[string]*models.User),
		Restaurants: make(map[string]*models.Restaurant),
		Menus:       make(map[string]*models.Menu),
	}

	err := st.Transaction(ctx, func(tx *store.Store) error {
		for _, u := range users {
			hash, err := auth.HashPassword(u.password, cost)
			if err != nil {
				return err
			}
			user := &models.User{
				Email:        u.email,
				PasswordHash: hash,
				Name:         u.name,
				Role:         u.role,
				Country:      u.country,
				IsActive:     true,
			}
			if err := tx.CreateUser(ctx, user); err != nil {
				return err
			}
			data.Users[u.email] = user
		}

		for _, r := range restaurants {
			restaurant := &models.Restaurant{Name: r.name, Country: r.country, Description: r.description}
			if err := tx.CreateRestaurant(ctx, restaurant); err != nil {
				return err
			}
			data.Restaurants[r.name] = restaurant

			for _, m := range r.menus {
				menu := &models.Menu{
					RestaurantID: restaurant.ID,
					Name:         m.name,
					Price:        decimal.RequireFromString(m.price),
					Description:  m.description,
				}
				if err := tx.CreateMenu(ctx, menu); err != nil {
					return err
				}
				data.Menus[m.name] = menu
			}
		}

		for _, p := range paymentMethods {
			pm := &models.PaymentMethod{UserID: data.Users[p.email].ID, CardLast4: p.last4, Type: p.kind}
			if err := tx.CreatePaymentMethod(ctx, pm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Principal returns the request principal of a seeded user
func (d *Data) Principal(email string) models.Principal {
	return models.PrincipalOf(d.Users[email])
}
