package date_test

import (
	"testing"
	"time"

	"github.com/zephyrtronium/quill/coreext/date"
	"github.com/zephyrtronium/quill/testutils"
)

func TestRegister(t *testing.T) {
	testutils.CheckNames(t, testutils.TestingInterpreter(), []string{"Date"})
}

func TestDate(t *testing.T) {
	in := testutils.TestingInterpreter()
	in.Install("fixedDate", date.New(in.Class("Date"), time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)))
	cases := map[string]testutils.SourceTestCase{
		"unix":      {Source: `new Date(1.5).unix()`, Pass: testutils.PassEqual(testutils.Number(1.5))},
		"format":    {Source: `fixedDate.format('%Y-%m-%d %H:%M:%S')`, Pass: testutils.PassEqual(testutils.Text("2020-01-02 03:04:05"))},
		"toString":  {Source: `str(fixedDate)`, Pass: testutils.PassEqual(testutils.Text("2020-01-02 03:04:05 UTC"))},
		"year":      {Source: `fixedDate.year()`, Pass: testutils.PassEqual(testutils.Number(2020))},
		"month":     {Source: `fixedDate.month()`, Pass: testutils.PassEqual(testutils.Number(1))},
		"day":       {Source: `fixedDate.day()`, Pass: testutils.PassEqual(testutils.Number(2))},
		"hour":      {Source: `fixedDate.hour()`, Pass: testutils.PassEqual(testutils.Number(3))},
		"minute":    {Source: `fixedDate.minute()`, Pass: testutils.PassEqual(testutils.Number(4))},
		"second":    {Source: `fixedDate.second()`, Pass: testutils.PassEqual(testutils.Number(5))},
		"now":       {Source: `Date.now().year() >= 2020`, Pass: testutils.PassEqual(testutils.True)},
		"nowType":   {Source: `type(Date.now())`, Pass: testutils.PassEqual(testutils.Text("Date"))},
		"badInit":   {Source: `new Date('x')`, Pass: testutils.PassFailure()},
		"badFormat": {Source: `fixedDate.format(1)`, Pass: testutils.PassFailure()},
		"notDate":   {Source: `Date.year()`, Pass: testutils.PassFailure()},
	}
	testutils.Run(t, cases)
}

func TestOf(t *testing.T) {
	in := testutils.TestingInterpreter()
	want := time.Unix(1234, 0)
	got, ok := date.Of(date.New(in.Class("Date"), want))
	if !ok {
		t.Fatal("Of failed on a Date")
	}
	if !got.Equal(want) {
		t.Errorf("wrong time: want %v, got %v", want, got)
	}
	if _, ok := date.Of(testutils.Number(1)); ok {
		t.Error("Of succeeded on a Number")
	}
}
