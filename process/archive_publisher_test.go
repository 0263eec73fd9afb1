// Copyright (c) 2024 Neomantra Corp

package process_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimbleMarkets/opra-fh/process"
)

var sessionDate = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

var _ = Describe("ArchivePublisher", func() {
	It("writes newline-delimited records to a plain file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "archive.jsonl")
		pub, err := process.NewArchivePublisher(path, sessionDate, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(pub.Send("topic-a", []byte(`{"a":1}`))).To(Succeed())
		Expect(pub.Send("topic-b", []byte(`{"b":2}`))).To(Succeed())
		Expect(pub.Close()).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("{\"a\":1}\n{\"b\":2}\n"))
	})

	It("zstd-compresses when the filename ends in .zst", func() {
		path := filepath.Join(GinkgoT().TempDir(), "archive.jsonl.zst")
		pub, err := process.NewArchivePublisher(path, sessionDate, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(pub.Send("topic-a", []byte(`{"a":1}`))).To(Succeed())
		Expect(pub.Close()).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))
	})

	It("substitutes the session date into a YYYYMMDD filename template", func() {
		dir := GinkgoT().TempDir()
		template := filepath.Join(dir, "opra.YYYYMMDD.jsonl")
		pub, err := process.NewArchivePublisher(template, sessionDate, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(pub.Send("topic-a", []byte(`{"a":1}`))).To(Succeed())
		Expect(pub.Close()).To(Succeed())

		_, err = os.Stat(filepath.Join(dir, "opra.20260801.jsonl"))
		Expect(err).NotTo(HaveOccurred())
	})
})
