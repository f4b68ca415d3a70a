package receipt

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-splitter/internal/parsing"
	"github.com/zombor/receipt-splitter/internal/splitting"
)

// sessionStoreBehaviour runs the SessionStore contract against the store
// returned by newStore.
func sessionStoreBehaviour(newStore func() SessionStore) {
	var (
		store   SessionStore
		created time.Time
	)

	sessionAt := func(id string, at time.Time) splitting.Session {
		session := splitting.NewSession(id, at)
		session.Ledger = session.Ledger.AddParticipant("Aysel").AddParticipant("Murad")
		items := splitting.NewLineItems([]parsing.Item{
			{Name: "Dolma", Quantity: 1, UnitPrice: decimal.RequireFromString("12.40"), TotalPrice: decimal.RequireFromString("12.40"), Source: parsing.SourcePattern},
		}, func() string { return "item-1" })
		return session.WithReceipt(items, &splitting.ReceiptInfo{Merchant: "Firuzə", Currency: "AZN"})
	}

	BeforeEach(func() {
		created = time.Date(2024, 5, 12, 19, 30, 0, 0, time.UTC)
		store = newStore()
		DeferCleanup(store.Close)
	})

	It("saves and retrieves a session", func() {
		Expect(store.SaveSession(sessionAt("s1", created))).To(Succeed())

		session, err := store.GetSession("s1")
		Expect(err).NotTo(HaveOccurred())
		Expect(session.ID).To(Equal("s1"))
		Expect(session.Step).To(Equal(splitting.StepAssign))
		Expect(session.CreatedAt.Equal(created)).To(BeTrue())
		Expect(session.Ledger.Participants).To(Equal([]string{"Aysel", "Murad"}))
		Expect(session.Ledger.Items).To(HaveLen(1))
		Expect(session.Ledger.Items[0].Name).To(Equal("Dolma"))
		Expect(session.Ledger.Items[0].TotalPrice.Equal(decimal.RequireFromString("12.4"))).To(BeTrue())
		Expect(session.Receipt.Merchant).To(Equal("Firuzə"))
	})

	It("replaces a saved session", func() {
		Expect(store.SaveSession(sessionAt("s1", created))).To(Succeed())
		Expect(store.SaveSession(splitting.NewSession("s1", created))).To(Succeed())

		session, err := store.GetSession("s1")
		Expect(err).NotTo(HaveOccurred())
		Expect(session.Ledger.Participants).To(BeEmpty())
	})

	It("returns ErrSessionNotFound for unknown IDs", func() {
		_, err := store.GetSession("missing")
		Expect(err).To(MatchError(ErrSessionNotFound))
	})

	It("lists every session", func() {
		Expect(store.SaveSession(sessionAt("s1", created))).To(Succeed())
		Expect(store.SaveSession(sessionAt("s2", created.Add(time.Minute)))).To(Succeed())

		sessions, err := store.ListSessions()
		Expect(err).NotTo(HaveOccurred())
		ids := make([]string, 0, len(sessions))
		for _, s := range sessions {
			ids = append(ids, s.ID)
		}
		Expect(ids).To(Equal([]string{"s1", "s2"}))
	})

	It("lists sessions oldest first regardless of their IDs", func() {
		Expect(store.SaveSession(sessionAt("a-late", created.Add(time.Minute)))).To(Succeed())
		Expect(store.SaveSession(sessionAt("z-early", created))).To(Succeed())
		Expect(store.SaveSession(sessionAt("m-middle", created.Add(time.Second)))).To(Succeed())

		sessions, err := store.ListSessions()
		Expect(err).NotTo(HaveOccurred())
		ids := make([]string, 0, len(sessions))
		for _, s := range sessions {
			ids = append(ids, s.ID)
		}
		Expect(ids).To(Equal([]string{"z-early", "m-middle", "a-late"}))
	})

	It("lists nothing when empty", func() {
		sessions, err := store.ListSessions()
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions).To(BeEmpty())
	})

	It("deletes sessions", func() {
		Expect(store.SaveSession(sessionAt("s1", created))).To(Succeed())
		Expect(store.DeleteSession("s1")).To(Succeed())

		_, err := store.GetSession("s1")
		Expect(err).To(MatchError(ErrSessionNotFound))
		Expect(store.DeleteSession("s1")).To(Succeed())
	})
}

var _ = Describe("BoltStore", func() {
	sessionStoreBehaviour(func() SessionStore {
		store, err := NewBoltStore(filepath.Join(GinkgoT().TempDir(), "sessions.db"))
		Expect(err).NotTo(HaveOccurred())
		return store
	})

	It("keeps sessions across reopening", func() {
		path := filepath.Join(GinkgoT().TempDir(), "sessions.db")
		store, err := NewBoltStore(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.SaveSession(splitting.NewSession("s1", time.Now()))).To(Succeed())
		Expect(store.Close()).To(Succeed())

		store, err = NewBoltStore(path)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()
		_, err = store.GetSession("s1")
		Expect(err).NotTo(HaveOccurred())
	})

	It("fails for an unusable path", func() {
		_, err := NewBoltStore(filepath.Join(GinkgoT().TempDir(), "missing", "sessions.db"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("MemoryStore", func() {
	sessionStoreBehaviour(func() SessionStore {
		return NewMemoryStore()
	})
})
