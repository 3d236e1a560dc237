package server

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/config"
	"holdem-server/internal/rng"
	"holdem-server/pkg/table"
)

// Server owns the connection registry and the tables. It assigns player and
// table ids, routes actions to the right table, and publishes the resulting
// events with the visibility filter applied.
//
// A single mutex serializes every table operation, satisfying the engine's
// serial-driver contract.
type Server struct {
	mu  sync.Mutex
	log logrus.FieldLogger

	maxClients int
	tableSeed  int64

	clients map[table.PlayerID]*Client
	tables  map[table.TableID]*table.Table

	nextPlayerID table.PlayerID
	nextTableID  table.TableID
}

// Stats is a point-in-time head count for the health endpoint
type Stats struct {
	Clients int `json:"clients"`
	Tables  int `json:"tables"`
}

// New returns a server with no tables
func New(logger logrus.FieldLogger, cfg config.Config) *Server {
	return &Server{
		log:          logger,
		maxClients:   cfg.MaxClients,
		tableSeed:    cfg.TableSeed,
		clients:      make(map[table.PlayerID]*Client),
		tables:       make(map[table.TableID]*table.Table),
		nextPlayerID: 1,
		nextTableID:  1,
	}
}

// Stats reports how many connections and tables are live
func (s *Server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{Clients: len(s.clients), Tables: len(s.tables)}
}

// Connect registers a new connection, assigns it a player id, and seats it
// at a table with an open seat, creating a table when none has room. The
// returned client is already subscribed to its table's events.
func (s *Server) Connect(conn *websocket.Conn) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextPlayerID
	s.nextPlayerID++

	client := newClient(conn, id)
	s.clients[id] = client

	log := s.log.WithField("client", client.String())

	if len(s.clients) > s.maxClients {
		log.WithField("clients", len(s.clients)).Warn("too many clients; rejecting")
		client.Send(errorEnvelope(table.ErrTooManyClients))
		client.dead = true
		return client
	}

	tableID, tbl := s.findOpenTable()
	client.TableID = tableID

	events, err := tbl.AddPlayer(id)
	if err != nil {
		log.WithError(err).Warn("could not seat player")
		client.Send(errorEnvelope(table.ErrAllTablesFull))
		client.dead = true
		return client
	}

	log.Info("player seated")
	client.Send(Envelope{Kind: "welcome", Data: welcomePayload{PlayerID: id, TableID: tableID}})
	s.broadcast(tableID, events)
	s.maybeStartHand(tableID)

	return client
}

// Disconnect drops the client and removes the player from their table
func (s *Server) Disconnect(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[client.PlayerID]; !ok {
		return
	}
	delete(s.clients, client.PlayerID)

	tbl, ok := s.tables[client.TableID]
	if !ok || client.dead {
		return
	}

	events, err := tbl.RemovePlayer(client.PlayerID)
	if err != nil {
		s.log.WithError(err).WithField("client", client.String()).Warn("could not remove player")
		return
	}

	s.log.WithField("client", client.String()).Info("player left")
	s.broadcast(client.TableID, events)
}

// HandleMessage applies a client's request to its table. Engine errors go
// back to the offender only; events are broadcast to the table.
func (s *Server) HandleMessage(client *Client, payload *PayloadIn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tbl, ok := s.tables[client.TableID]
	if !ok || client.dead {
		client.Send(errorEnvelope(table.ErrIllegalAction))
		return
	}

	var events []table.Event
	var err error

	switch payload.Action {
	case actionStart:
		events, err = tbl.StartHand()
	case actionFold:
		events, err = tbl.OnAction(table.Fold{ID: client.PlayerID})
	case actionBet:
		events, err = tbl.OnAction(table.Bet{ID: client.PlayerID, Amount: payload.Amount})
	case actionTimeout:
		events, err = tbl.OnAction(table.Timeout{ID: client.PlayerID})
	default:
		client.Send(errorEnvelope(table.ErrIllegalAction))
		return
	}

	if err != nil {
		s.log.WithError(err).WithField("client", client.String()).Debug("action rejected")
		client.Send(errorEnvelope(err))
		return
	}

	s.broadcast(client.TableID, events)
}

// findOpenTable returns a table with an open seat, creating one if necessary.
// The caller must hold the lock.
func (s *Server) findOpenTable() (table.TableID, *table.Table) {
	for id, tbl := range s.tables {
		if tbl.HasOpenSeat() {
			return id, tbl
		}
	}

	id := s.nextTableID
	s.nextTableID++

	tbl := table.NewTable(s.log.WithField("table", id), rng.ForTable(s.tableSeed, uint64(id)))
	s.tables[id] = tbl
	s.log.WithField("table", id).Info("created table")

	return id, tbl
}

// maybeStartHand starts a hand if one can be started. The caller must hold
// the lock.
func (s *Server) maybeStartHand(id table.TableID) {
	tbl, ok := s.tables[id]
	if !ok || !tbl.CanStartHand() {
		return
	}

	events, err := tbl.StartHand()
	if err != nil {
		// fewer than two eligible players once leavers are finalized
		s.log.WithError(err).WithField("table", id).Debug("hand not started")
		return
	}

	s.broadcast(id, events)
}

// broadcast delivers events to every live client at the table, applying the
// visibility filter. The caller must hold the lock.
func (s *Server) broadcast(id table.TableID, events []table.Event) {
	for _, ev := range events {
		for _, client := range s.clients {
			if client.TableID != id || client.dead {
				continue
			}
			if !eventVisibleTo(ev, client.PlayerID) {
				continue
			}
			if !client.Send(eventEnvelope(ev)) {
				s.log.WithField("client", client.String()).Warn("send buffer full; dropping event")
			}
		}
	}
}
