package cpu

// Mode is the 5-bit CPSR mode field (§3.1).
type Mode uint32

const (
	ModeUser Mode = 0x10
	ModeFIQ  Mode = 0x11
	ModeIRQ  Mode = 0x12
	ModeSVC  Mode = 0x13
	ModeABT  Mode = 0x17
	ModeUND  Mode = 0x1B
	ModeSYS  Mode = 0x1F
)

// PSR flag/field bit positions within CPSR/SPSR.
const (
	flagN uint32 = 1 << 31
	flagZ uint32 = 1 << 30
	flagC uint32 = 1 << 29
	flagV uint32 = 1 << 28
	flagI uint32 = 1 << 7
	flagF uint32 = 1 << 6
	flagT uint32 = 1 << 5
	modeMask uint32 = 0x1F
)

// bankedRegs holds the r13/r14 shadow for a privileged mode, plus r8-r14 for FIQ.
type bankedRegs struct {
	r8, r9, r10, r11, r12, r13, r14 uint32
	spsr                            uint32
}

// registerFile is the ARM7TDMI register set: a live r0-r15 window plus the
// banked shadows that swap in on a mode change (§3.1, §9 design note).
type registerFile struct {
	r    [16]uint32 // live view
	cpsr uint32

	fiq bankedRegs
	irq bankedRegs
	svc bankedRegs
	abt bankedRegs
	und bankedRegs

	// user8_12/userR13/userR14 hold r8-r14 whenever USER or SYS mode is not
	// the live window (i.e. whenever a privileged/FIQ mode is active); they
	// are the shadow that USER/SYS shares, since unlike FIQ/IRQ/SVC/ABT/UND
	// it has no entry in bankFor.
	user8_12         [5]uint32
	userR13, userR14 uint32
}

func newRegisterFile() registerFile {
	rf := registerFile{}
	rf.cpsr = uint32(ModeSVC) | flagI | flagF
	return rf
}

func (rf *registerFile) mode() Mode {
	return Mode(rf.cpsr & modeMask)
}

func (rf *registerFile) thumb() bool {
	return rf.cpsr&flagT != 0
}

func (rf *registerFile) setThumb(on bool) {
	if on {
		rf.cpsr |= flagT
	} else {
		rf.cpsr &^= flagT
	}
}

func (rf *registerFile) irqDisabled() bool { return rf.cpsr&flagI != 0 }
func (rf *registerFile) fiqDisabled() bool { return rf.cpsr&flagF != 0 }

// bankFor returns the bankedRegs for a privileged mode, or nil for USER/SYS,
// which have no bankedRegs entry (their r13/r14 are kept in
// userR13/userR14 while another mode holds the live window).
func (rf *registerFile) bankFor(m Mode) *bankedRegs {
	switch m {
	case ModeFIQ:
		return &rf.fiq
	case ModeIRQ:
		return &rf.irq
	case ModeSVC:
		return &rf.svc
	case ModeABT:
		return &rf.abt
	case ModeUND:
		return &rf.und
	default:
		return nil
	}
}

// switchMode performs the two-copy bank swap described in §9: save the
// outgoing mode's live r8-r14 to its bank, then load the incoming mode's
// bank into the live window. USER and SYS share one (unbanked) r13/r14 set,
// stored in fiq/irq/svc/abt/und's r13/r14 fields is never used for them;
// instead USER/SYS values simply live in rf.r while no privileged mode is
// using the window, which this implementation tracks via a dedicated slot.
func (rf *registerFile) switchMode(newMode Mode) {
	oldMode := rf.mode()
	if oldMode == newMode {
		return
	}

	// FIQ banks r8-r12 regardless of which mode is becoming active.
	wasFIQ := oldMode == ModeFIQ
	willBeFIQ := newMode == ModeFIQ
	if wasFIQ && !willBeFIQ {
		rf.fiq.r8, rf.fiq.r9, rf.fiq.r10, rf.fiq.r11, rf.fiq.r12 = rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12]
		rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12] = rf.user8_12[0], rf.user8_12[1], rf.user8_12[2], rf.user8_12[3], rf.user8_12[4]
	} else if willBeFIQ && !wasFIQ {
		rf.user8_12[0], rf.user8_12[1], rf.user8_12[2], rf.user8_12[3], rf.user8_12[4] = rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12]
		rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12] = rf.fiq.r8, rf.fiq.r9, rf.fiq.r10, rf.fiq.r11, rf.fiq.r12
	}

	// r13/r14: save live into the outgoing privileged bank (if any),
	// else into the shared user bank; load the incoming bank the same way.
	if b := rf.bankFor(oldMode); b != nil {
		b.r13, b.r14 = rf.r[13], rf.r[14]
	} else {
		rf.userR13, rf.userR14 = rf.r[13], rf.r[14]
	}

	if b := rf.bankFor(newMode); b != nil {
		rf.r[13], rf.r[14] = b.r13, b.r14
	} else {
		rf.r[13], rf.r[14] = rf.userR13, rf.userR14
	}

	rf.cpsr = (rf.cpsr &^ modeMask) | uint32(newMode)
}

func (rf *registerFile) spsr() *uint32 {
	if b := rf.bankFor(rf.mode()); b != nil {
		return &b.spsr
	}
	return nil
}
