package battle

import "fmt"

// StateID names one of the combat states.
type StateID int

const (
	StateNone StateID = iota
	StateInit
	StatePlayerTurn
	StateEnemyTurn
	StateCardExecution
	StateSlotMoving
	StateSummon
	StateSummonReturn
	StateEnemyDefeated
	StateBattleEnd
)

var stateNames = map[StateID]string{
	StateNone:          "none",
	StateInit:          "init",
	StatePlayerTurn:    "player_turn",
	StateEnemyTurn:     "enemy_turn",
	StateCardExecution: "card_execution",
	StateSlotMoving:    "slot_moving",
	StateSummon:        "summon",
	StateSummonReturn:  "summon_return",
	StateEnemyDefeated: "enemy_defeated",
	StateBattleEnd:     "battle_end",
}

func (id StateID) String() string {
	if name, ok := stateNames[id]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(id))
}

// Capabilities are the per-state permissions gating input, automatic
// execution, queue shifts and turn switching.
type Capabilities struct {
	AllowPlayerDrag    bool
	AllowEnemyAutoExec bool
	AllowSlotMove      bool
	AllowTurnSwitch    bool
}

var capabilityTable = map[StateID]Capabilities{
	StatePlayerTurn: {AllowPlayerDrag: true},
	StateEnemyTurn:  {AllowEnemyAutoExec: true, AllowSlotMove: true},
	StateSlotMoving: {AllowEnemyAutoExec: true, AllowSlotMove: true},
}

// Capabilities derives the permissions of id. States absent from the table
// allow nothing.
func (id StateID) Capabilities() Capabilities {
	return capabilityTable[id]
}

// State is one node of the combat machine. A fresh value is installed on
// every transition and discarded on exit.
type State interface {
	ID() StateID
	Enter(m *Machine)
	Exit(m *Machine)
	Update(m *Machine)
	// CanTransition is the synchronous half of the handoff.
	CanTransition(m *Machine) bool
	// Completion returns the wait that must finish before the next state
	// is installed.
	Completion(m *Machine) Wait
}

// baseState supplies the defaults most states use.
type baseState struct{}

func (baseState) Enter(*Machine)              {}
func (baseState) Exit(*Machine)               {}
func (baseState) Update(*Machine)             {}
func (baseState) CanTransition(*Machine) bool { return true }
func (baseState) Completion(*Machine) Wait    { return Immediate }
