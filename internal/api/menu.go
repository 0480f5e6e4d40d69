package api

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"canteen-client/internal/model"

	"github.com/go-resty/resty/v2"
)

// Categories fetches all menu categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	resp, err := c.http.R().SetContext(ctx).SetResult(&categories).Get("/api/menu-categories/")
	if err != nil {
		return nil, c.transportError("fetch categories", err)
	}
	if !resp.IsSuccess() {
		return nil, c.serverError(resp)
	}
	return categories, nil
}

// MenuItems fetches all menu items.
func (c *Client) MenuItems(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	resp, err := c.http.R().SetContext(ctx).SetResult(&items).Get("/api/menu-items/")
	if err != nil {
		return nil, c.transportError("fetch menu items", err)
	}
	if !resp.IsSuccess() {
		return nil, c.serverError(resp)
	}
	return items, nil
}

// CategoryRequest is the payload for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateCategory creates a menu category. Staff only.
func (c *Client) CreateCategory(ctx context.Context, r CategoryRequest) (*model.Category, error) {
	req, err := c.mutating(ctx)
	if err != nil {
		return nil, err
	}

	var created model.Category
	resp, err := req.SetBody(r).SetResult(&created).Post("/api/menu-categories/")
	if err != nil {
		return nil, c.transportError("create category", err)
	}
	if !resp.IsSuccess() {
		return nil, c.serverError(resp)
	}
	return &created, nil
}

// UpdateCategory updates a menu category. Staff only.
func (c *Client) UpdateCategory(ctx context.Context, id int64, r CategoryRequest) (*model.Category, error) {
	req, err := c.mutating(ctx)
	if err != nil {
		return nil, err
	}

	var updated model.Category
	resp, err := req.SetBody(r).SetResult(&updated).
		Put(fmt.Sprintf("/api/menu-categories/%d/", id))
	if err != nil {
		return nil, c.transportError("update category", err)
	}
	if !resp.IsSuccess() {
		return nil, c.serverError(resp)
	}
	return &updated, nil
}

// DeleteCategory deletes a menu category. Staff only.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	req, err := c.mutating(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete(fmt.Sprintf("/api/menu-categories/%d/", id))
	if err != nil {
		return c.transportError("delete category", err)
	}
	if !resp.IsSuccess() {
		return c.serverError(resp)
	}
	return nil
}

// MenuItemRequest is the payload for creating or updating a menu item.
// Creates and updates go as multipart form data so an image file can be
// attached.
type MenuItemRequest struct {
	Name        string
	Description string
	Price       float64
	CategoryID  int64
	Available   bool

	// ImagePath is an optional local path to an image to upload.
	ImagePath string
}

// formData flattens the request into multipart form fields.
func (r MenuItemRequest) formData() map[string]string {
	return map[string]string{
		"name":        r.Name,
		"description": r.Description,
		"price":       strconv.FormatFloat(r.Price, 'f', 2, 64),
		"category":    strconv.FormatInt(r.CategoryID, 10),
		"available":   strconv.FormatBool(r.Available),
	}
}

// attachImage adds the image file to the multipart request, if one was
// given.
func (r MenuItemRequest) attachImage(req *resty.Request) (io.Closer, error) {
	if r.ImagePath == "" {
		return nil, nil
	}
	f, err := os.Open(r.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open image %s: %w", r.ImagePath, err)
	}
	req.SetFileReader("image", filepath.Base(r.ImagePath), f)
	return f, nil
}

// CreateMenuItem creates a menu item, uploading the image when present.
// Staff only.
func (c *Client) CreateMenuItem(ctx context.Context, r MenuItemRequest) (*model.MenuItem, error) {
	req, err := c.mutating(ctx)
	if err != nil {
		return nil, err
	}

	img, err := r.attachImage(req)
	if err != nil {
		return nil, err
	}
	if img != nil {
		defer img.Close()
	}

	var created model.MenuItem
	resp, err := req.SetMultipartFormData(r.formData()).SetResult(&created).Post("/api/menu-items/")
	if err != nil {
		return nil, c.transportError("create menu item", err)
	}
	if !resp.IsSuccess() {
		return nil, c.serverError(resp)
	}
	return &created, nil
}

// UpdateMenuItem updates a menu item, uploading a replacement image when
// present. Staff only.
func (c *Client) UpdateMenuItem(ctx context.Context, id int64, r MenuItemRequest) (*model.MenuItem, error) {
	req, err := c.mutating(ctx)
	if err != nil {
		return nil, err
	}

	img, err := r.attachImage(req)
	if err != nil {
		return nil, err
	}
	if img != nil {
		defer img.Close()
	}

	var updated model.MenuItem
	resp, err := req.SetMultipartFormData(r.formData()).SetResult(&updated).
		Put(fmt.Sprintf("/api/menu-items/%d/", id))
	if err != nil {
		return nil, c.transportError("update menu item", err)
	}
	if !resp.IsSuccess() {
		return nil, c.serverError(resp)
	}
	return &updated, nil
}

// DeleteMenuItem deletes a menu item. Staff only.
func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	req, err := c.mutating(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete(fmt.Sprintf("/api/menu-items/%d/", id))
	if err != nil {
		return c.transportError("delete menu item", err)
	}
	if !resp.IsSuccess() {
		return c.serverError(resp)
	}
	return nil
}
