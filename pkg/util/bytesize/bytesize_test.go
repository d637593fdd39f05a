package bytesize

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"
)

var _ = Describe("bytesize package", func() {
	Describe("Parse", func() {
		It("works with valid values", func() {
			Expect(Parse("1TB")).To(Equal(1 * TB))
			Expect(Parse("1 TB")).To(Equal(1 * TB))
			Expect(Parse(" 1 TB ")).To(Equal(1 * TB))
			Expect(Parse("  1  TB  ")).To(Equal(1 * TB))

			Expect(Parse("1.0TB")).To(BeNumerically("~", 1*TB, GB))
			Expect(Parse("1.9TB")).To(BeNumerically("~", 1*TB+921*GB, GB))

			Expect(Parse("1")).To(Equal(1 * Byte))
			Expect(Parse(" 1 ")).To(Equal(1 * Byte))

			Expect(Parse("1mb")).To(Equal(1 * MB))
			Expect(Parse("1mB")).To(Equal(1 * MB))
			Expect(Parse("128MB")).To(Equal(ByteSize(1 << 27)))
		})
		It("returns error with invalid values", func() {
			_, err := Parse("1UB")
			Expect(err).To(MatchError("could not parse ByteSize"))
			_, err = Parse("")
			Expect(err).To(HaveOccurred())
			_, err = Parse("-1KB")
			Expect(err).To(HaveOccurred())
		})
		It("rejects values that overflow", func() {
			Expect(Parse("8191PB")).To(Equal(8191 * PB))
			Expect(Parse("9223372036854775807")).To(Equal(ByteSize(math.MaxInt64)))
			Expect(Parse("8191.5PB")).To(BeNumerically(">", 8191*PB))

			for _, s := range []string{"8192PB", "9000000PB", "9223372036854775808", "8192.0PB", "1e3PB", "99999999999.5TB"} {
				_, err := Parse(s)
				Expect(err).To(MatchError("could not parse ByteSize"), s)
			}
		})
	})

	Describe("String", func() {
		It("uses the largest exact unit", func() {
			Expect((128 * MB).String()).To(Equal("128MB"))
			Expect((3 * KB).String()).To(Equal("3KB"))
			Expect(ByteSize(17).String()).To(Equal("17B"))
			Expect((KB + 512).String()).To(Equal("1.5KB"))
		})
	})

	Describe("flag and yaml", func() {
		It("implements flag.Value", func() {
			var b ByteSize
			Expect(b.Set("2KB")).To(Succeed())
			Expect(b).To(Equal(2 * KB))
			Expect(b.Set("bogus")).NotTo(Succeed())
		})
		It("round-trips through yaml", func() {
			var cfg struct {
				Size ByteSize `yaml:"size"`
			}
			Expect(yaml.Unmarshal([]byte("size: 64KB\n"), &cfg)).To(Succeed())
			Expect(cfg.Size).To(Equal(64 * KB))
			Expect(yaml.Unmarshal([]byte("size: 4096\n"), &cfg)).To(Succeed())
			Expect(cfg.Size).To(Equal(4 * KB))

			out, err := yaml.Marshal(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("size: 4KB\n"))
		})
	})
})
