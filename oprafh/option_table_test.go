// Copyright (c) 2024 Neomantra Corp

package oprafh_test

import (
	oprafh "github.com/NimbleMarkets/opra-fh/oprafh"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type nullRegistrar struct{ calls int }

func (r *nullRegistrar) RegisterTopic(e *oprafh.OptionEntry) { r.calls++ }

var _ = Describe("OptionTable", func() {
	Context("insert and lookup", func() {
		It("creates an entry on first observation and finds it again", func() {
			table := oprafh.NewOptionTable(16, 2, nil)
			reg := &nullRegistrar{}
			key := oprafh.NewOptionKey("MSFT", 25, 1, 17, oprafh.PutCall_Call, 'N', 300, 0)

			entry, err := table.Insert(key, 0, nil, reg)
			Expect(err).To(BeNil())
			Expect(entry).ToNot(BeNil())
			Expect(reg.calls).To(Equal(1))

			found, ok := table.Lookup(key)
			Expect(ok).To(BeTrue())
			Expect(found).To(BeIdenticalTo(entry))
		})

		It("fails with ErrDuplicateKey on re-insert", func() {
			table := oprafh.NewOptionTable(16, 1, nil)
			key := oprafh.NewOptionKey("MSFT", 25, 1, 17, oprafh.PutCall_Call, 'N', 300, 0)
			_, err := table.Insert(key, 0, nil, nil)
			Expect(err).To(BeNil())
			_, err = table.Insert(key, 0, nil, nil)
			Expect(err).To(Equal(oprafh.ErrDuplicateKey))
		})

		It("returns ErrTableFull once the slab is exhausted", func() {
			table := oprafh.NewOptionTable(2, 1, nil)
			k1 := oprafh.NewOptionKey("AAAAA", 25, 1, 1, oprafh.PutCall_Call, 'A', 1, 0)
			k2 := oprafh.NewOptionKey("BBBBB", 25, 1, 1, oprafh.PutCall_Call, 'A', 1, 0)
			k3 := oprafh.NewOptionKey("CCCCC", 25, 1, 1, oprafh.PutCall_Call, 'A', 1, 0)
			_, err := table.Insert(k1, 0, nil, nil)
			Expect(err).To(BeNil())
			_, err = table.Insert(k2, 0, nil, nil)
			Expect(err).To(BeNil())
			_, err = table.Insert(k3, 0, nil, nil)
			Expect(err).To(Equal(oprafh.ErrTableFull))
		})

		It("never relocates an entry's pointer, even near capacity", func() {
			table := oprafh.NewOptionTable(8, 1, nil)
			var first *oprafh.OptionEntry
			for i := 0; i < 8; i++ {
				key := oprafh.NewOptionKey("SYM", 25, 1, uint8(i+1), oprafh.PutCall_Call, 'A', 1, 0)
				e, err := table.Insert(key, 0, nil, nil)
				Expect(err).To(BeNil())
				if i == 0 {
					first = e
				}
			}
			key0 := oprafh.NewOptionKey("SYM", 25, 1, 1, oprafh.PutCall_Call, 'A', 1, 0)
			found, ok := table.Lookup(key0)
			Expect(ok).To(BeTrue())
			Expect(found).To(BeIdenticalTo(first))
		})
	})

	Context("stats", func() {
		It("reports count and capacity", func() {
			table := oprafh.NewOptionTable(10, 1, nil)
			key := oprafh.NewOptionKey("MSFT", 25, 1, 17, oprafh.PutCall_Call, 'N', 300, 0)
			_, _ = table.Insert(key, 0, nil, nil)
			stats := table.Stats()
			Expect(stats.Count).To(Equal(1))
			Expect(stats.Capacity).To(Equal(10))
		})
	})

	Context("FT-line enrollment", func() {
		It("enrolls entries onto their assigned FT-line list", func() {
			table := oprafh.NewOptionTable(8, 2, nil)
			k1 := oprafh.NewOptionKey("AAAAA", 25, 1, 1, oprafh.PutCall_Call, 'A', 1, 0)
			k2 := oprafh.NewOptionKey("BBBBB", 25, 1, 1, oprafh.PutCall_Call, 'A', 1, 0)
			_, err := table.Insert(k1, 0, nil, nil)
			Expect(err).To(BeNil())
			_, err = table.Insert(k2, 1, nil, nil)
			Expect(err).To(BeNil())

			var line0Keys []oprafh.OptionKey
			table.ForEachOnLine(0, func(e *oprafh.OptionEntry) {
				line0Keys = append(line0Keys, e.Key)
			})
			Expect(line0Keys).To(Equal([]oprafh.OptionKey{k1}))

			var line1Keys []oprafh.OptionKey
			table.ForEachOnLine(1, func(e *oprafh.OptionEntry) {
				line1Keys = append(line1Keys, e.Key)
			})
			Expect(line1Keys).To(Equal([]oprafh.OptionKey{k2}))
		})
	})
})
