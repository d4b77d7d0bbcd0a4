// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

/*
Package websocket streams progression events to connected clients.

A client connects to /ws/users/{userID}/events and receives every event
published for that user: achievement unlocks, level ups, point grants,
completed challenges and completed plan weeks. Each frame is a Message
whose Type is the event type and whose Data is the models.Event.

# Architecture

	notify.Notifier ──► services.EventRelayService ──► Hub.BroadcastEvent
	                                                      │
	                                              per-user fan-out
	                                                      │
	                                               Client.writePump ──► conn

The Hub runs under the supervisor tree through RunWithContext. Broadcasts
never block: a full hub channel or a full client buffer drops the event
(client buffers are dropped together with the client). Clients may send
{"type":"ping"} and receive {"type":"pong"}; the server also pings every
54 seconds and closes connections that miss a pong for 60 seconds.
*/
package websocket
