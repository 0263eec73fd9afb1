// Copyright (c) 2024 Neomantra Corp

package oprafh_test

import (
	oprafh "github.com/NimbleMarkets/opra-fh/oprafh"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TopicFormat", func() {
	It("renders the worked example from spec.md §6", func() {
		fmt := oprafh.TopicFormat{
			Stanzas: []string{"OPRA.$S", "$Y$M$D$C$I$F", "$X"},
			Delim:   ".",
		}
		key := oprafh.NewOptionKey("ABCDE", 10, 5, 10, oprafh.PutCall_Call, 'Q', 12345, 123)
		Expect(fmt.Render(key)).To(Equal("OPRA.ABCDE.100510C12345123.Q"))
	})

	It("is deterministic for identical keys", func() {
		fmt := oprafh.TopicFormat{Stanzas: []string{"$S.$Y$M$D$C$I$F.$X"}, Delim: "."}
		key := oprafh.NewOptionKey("MSFT", 25, 1, 17, oprafh.PutCall_Put, 'N', 300, 0)
		Expect(fmt.Render(key)).To(Equal(fmt.Render(key)))
	})
})
