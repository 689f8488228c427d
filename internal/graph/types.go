package graph

import (
	"time"

	"github.com/prepwise/prepwise/server/internal/model"
)

// Raw provider shapes. These are normalized to model.DiscoveredItem
// immediately after fetch and never travel past this package.

type rawEvent struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Organizer string    `json:"organizer"`
	WebURL    string    `json:"webUrl"`
	BodyText  string    `json:"bodyText"`
	Attendees []string  `json:"attendees"`
}

type rawMessage struct {
	ID               string    `json:"id"`
	Subject          string    `json:"subject"`
	From             string    `json:"from"`
	ConversationID   string    `json:"conversationId"`
	ReceivedDateTime time.Time `json:"receivedDateTime"`
	BodyPreview      string    `json:"bodyPreview"`
	BodyText         string    `json:"bodyText"`
}

type rawTeam struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

type rawChannel struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type rawDocument struct {
	ID           string    `json:"id"`
	ResourceID   string    `json:"resourceId"`
	Name         string    `json:"name"`
	WebURL       string    `json:"webUrl"`
	LastModified time.Time `json:"lastModifiedDateTime"`
}

type listResponse[T any] struct {
	Value []T `json:"value"`
}

func normalizeEvent(e rawEvent) model.DiscoveredItem {
	return model.DiscoveredItem{
		ID:         e.ID,
		SourceKind: model.SourceMeeting,
		Title:      e.Subject,
		Timestamp:  e.Start,
		Origin: map[string]interface{}{
			"organizer": e.Organizer,
			"webUrl":    e.WebURL,
			"attendees": e.Attendees,
		},
	}
}

func normalizeMessage(m rawMessage) model.DiscoveredItem {
	return model.DiscoveredItem{
		ID:             m.ID,
		SourceKind:     model.SourceEmail,
		Title:          m.Subject,
		ConversationID: m.ConversationID,
		Timestamp:      m.ReceivedDateTime,
		Origin: map[string]interface{}{
			"from":    m.From,
			"preview": m.BodyPreview,
		},
	}
}

func normalizeTeam(tm rawTeam) model.DiscoveredItem {
	return model.DiscoveredItem{
		ID:         tm.ID,
		SourceKind: model.SourceTeam,
		Title:      tm.DisplayName,
		Origin: map[string]interface{}{
			"description": tm.Description,
		},
	}
}

func normalizeDocument(d rawDocument, fileSource string) model.DiscoveredItem {
	resourceID := d.ResourceID
	if resourceID == "" {
		resourceID = d.ID
	}
	return model.DiscoveredItem{
		ID:         d.ID,
		SourceKind: model.SourceFile,
		Title:      d.Name,
		ResourceID: resourceID,
		FileSource: fileSource,
		Timestamp:  d.LastModified,
		Origin: map[string]interface{}{
			"webUrl": d.WebURL,
		},
	}
}
