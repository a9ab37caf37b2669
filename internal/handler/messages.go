// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/uikit"
)

// MessagesHandler handles the admin contact-message screens.
type MessagesHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(db *sql.DB, renderer *render.Renderer) *MessagesHandler {
	return &MessagesHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// MessageListData holds data for the message list.
type MessageListData struct {
	Messages   []model.ContactMessage
	Unread     int64
	Pagination uikit.AdminPagination
}

// List renders the paginated contact-message list, newest first.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.messages")

	page := uikit.ParsePageParam(r)
	total, err := h.queries.CountContactMessages(ctx)
	if err != nil {
		slog.Error("counting messages", "error", err)
	}
	page, _ = uikit.NormalizePagination(page, int(total), adminPerPage)

	messages, err := h.queries.ListContactMessages(ctx, store.ListContactMessagesParams{
		Limit:  adminPerPage,
		Offset: int64((page - 1) * adminPerPage),
	})
	if err != nil {
		slog.Error("listing messages", "error", err)
	}

	unread, err := h.queries.CountUnreadContactMessages(ctx)
	if err != nil {
		slog.Error("counting unread messages", "error", err)
	}

	renderAdmin(w, r, h.renderer, "admin/messages", pc, MessageListData{
		Messages:   messages,
		Unread:     unread,
		Pagination: uikit.BuildAdminPagination(page, int(total), adminPerPage, RouteAdminMessages, r.URL.Query()),
	})
}

// MessageDetailData holds data for one message.
type MessageDetailData struct {
	Message model.ContactMessage
}

// View renders one message and marks it read.
func (h *MessagesHandler) View(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMessages, pc.T("admin.not_found"))
		return
	}
	message, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminMessages, "message", id,
		func(id int64) (model.ContactMessage, error) { return h.queries.GetContactMessageByID(r.Context(), id) })
	if !ok {
		return
	}

	if !message.Read {
		if err := h.queries.MarkContactMessageRead(r.Context(), id); err != nil {
			slog.Error("marking message read", "error", err, "message_id", id)
		} else {
			message.Read = true
		}
	}

	pc.Title = message.Subject
	renderAdmin(w, r, h.renderer, "admin/message_detail", pc, MessageDetailData{Message: message})
}

// Delete removes a message. The route is admin-only.
func (h *MessagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMessages, pc.T("admin.not_found"))
		return
	}

	if err := h.queries.DeleteContactMessage(r.Context(), id); err != nil {
		slog.Error("deleting message", "error", err, "message_id", id)
		flashError(w, r, h.renderer, redirectAdminMessages, pc.T("auth.error"))
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminMessages, pc.T("admin.deleted"))
}
