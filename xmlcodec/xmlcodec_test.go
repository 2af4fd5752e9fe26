package xmlcodec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/tag"
)

func sampleTree() *tag.Node {
	return tag.NewCompound("root",
		tag.NewInt8("b", -1),
		tag.NewInt16("s", 300),
		tag.NewInt32("i", -70000),
		tag.NewInt64("l", 1<<40),
		tag.NewFloat32("f", 1.5),
		tag.NewFloat64("d", -0.1),
		tag.NewString("str", "Banana"),
		tag.NewString("empty", ""),
		tag.NewInt8Array("ba", []int8{-128, 127}),
		tag.NewInt32Array("ia", []int32{1, -2, 3}),
		tag.NewInt64Array("la", []int64{9}),
		tag.NewList("strs", format.TagString,
			&tag.Node{Kind: format.TagString, Str: "x"},
			&tag.Node{Kind: format.TagString, Str: "y"},
		),
		tag.NewList("none", format.TagEnd),
		tag.NewCompound("sub", tag.NewInt32("v", 7)),
	)
}

func TestFromNode_Shape(t *testing.T) {
	el, err := FromNode(sampleTree(), true)
	require.NoError(t, err)

	require.Equal(t, "TCompound", el.Tag)
	name, ok := el.Attr("Name")
	require.True(t, ok)
	require.Equal(t, "root", name)
	require.Len(t, el.Children, 14)

	require.Equal(t, "TInt8", el.Children[0].Tag)
	require.Equal(t, "-1", el.Children[0].Text)

	strs := el.Children[11]
	require.Equal(t, "TList", strs.Tag)
	ct, ok := strs.Attr("ContentType")
	require.True(t, ok)
	require.Equal(t, "TString", ct)
	require.Len(t, strs.Children, 2)
	require.Equal(t, "TString", strs.Children[0].Tag)
	// List elements carry no Name attribute.
	_, ok = strs.Children[0].Attr("Name")
	require.False(t, ok)

	none := el.Children[12]
	ct, _ = none.Attr("ContentType")
	require.Equal(t, "TEnd", ct)
	require.Empty(t, none.Children)

	ba := el.Children[8]
	require.Equal(t, "TInt8Array", ba.Tag)
	require.Len(t, ba.Children, 2)
	require.Equal(t, "TInt8", ba.Children[0].Tag)
	require.Equal(t, "-128", ba.Children[0].Text)
}

func TestFromNode_ToNode_RoundTrip(t *testing.T) {
	root := sampleTree()

	el, err := FromNode(root, true)
	require.NoError(t, err)

	back, err := ToNode(el)
	require.NoError(t, err)
	require.Equal(t, root, back)
}

func TestFloatTextRoundTripsIEEE(t *testing.T) {
	values := []float64{0, -0.1, 1.0 / 3.0, math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(1)}
	for _, v := range values {
		el, err := FromNode(tag.NewFloat64("d", v), true)
		require.NoError(t, err)

		back, err := ToNode(el)
		require.NoError(t, err)
		require.Equal(t, v, back.Float64)
	}

	f32 := tag.NewFloat32("f", math.Float32frombits(0x3E99999A)) // 0.3 nearest
	el, err := FromNode(f32, true)
	require.NoError(t, err)
	back, err := ToNode(el)
	require.NoError(t, err)
	require.Equal(t, f32.Float32, back.Float32)
}

func TestMarshal_Unmarshal_RoundTrip(t *testing.T) {
	el, err := FromNode(sampleTree(), true)
	require.NoError(t, err)

	text, err := Marshal(el)
	require.NoError(t, err)

	parsed, err := Unmarshal(text)
	require.NoError(t, err)
	require.Equal(t, el, parsed)
}

func TestMarshal_EscapesSpecialCharacters(t *testing.T) {
	root := tag.NewCompound("r",
		tag.NewString("s", `<&>"'`),
	)
	el, err := FromNode(root, true)
	require.NoError(t, err)

	text, err := Marshal(el)
	require.NoError(t, err)

	parsed, err := Unmarshal(text)
	require.NoError(t, err)

	back, err := ToNode(parsed)
	require.NoError(t, err)
	require.Equal(t, `<&>"'`, back.Child("s").Str)
}

func TestToNode_UnknownElementName(t *testing.T) {
	var synErr *format.SyntaxError
	_, err := ToNode(NewElement("TBogus"))
	require.ErrorAs(t, err, &synErr)
}

func TestToNode_EndAsValue(t *testing.T) {
	var synErr *format.SyntaxError
	_, err := ToNode(NewElement("TEnd"))
	require.ErrorAs(t, err, &synErr)
}

func TestToNode_ListWithoutContentType(t *testing.T) {
	var synErr *format.SyntaxError
	_, err := ToNode(NewElement("TList"))
	require.ErrorAs(t, err, &synErr)
}

func TestToNode_ListContentMismatch(t *testing.T) {
	el := NewElement("TList").SetAttr("ContentType", "TInt32")
	el.Append(NewElement("TString"))
	_, err := ToNode(el)
	require.ErrorIs(t, err, format.ErrListContentMismatch)

	el = NewElement("TList").SetAttr("ContentType", "TEnd")
	el.Append(NewElement("TInt8"))
	_, err = ToNode(el)
	require.ErrorIs(t, err, format.ErrListContentMismatch)
}

func TestToNode_CompoundChildWithoutName(t *testing.T) {
	el := NewElement("TCompound").SetAttr("Name", "r")
	child := NewElement("TInt8")
	child.Text = "1"
	el.Append(child)

	var synErr *format.SyntaxError
	_, err := ToNode(el)
	require.ErrorAs(t, err, &synErr)
}

func TestToNode_DuplicateNames(t *testing.T) {
	el := NewElement("TCompound").SetAttr("Name", "r")
	a := NewElement("TInt8").SetAttr("Name", "x")
	a.Text = "1"
	b := NewElement("TInt8").SetAttr("Name", "x")
	b.Text = "2"
	el.Append(a, b)

	var dupErr *format.DuplicateNameError
	_, err := ToNode(el)
	require.ErrorAs(t, err, &dupErr)
	require.Equal(t, "x", dupErr.Name)
}

func TestToNode_IntegerOverflow(t *testing.T) {
	el := NewElement("TInt8").SetAttr("Name", "x")
	el.Text = "300"

	var rangeErr *format.ValueOutOfRangeError
	_, err := ToNode(el)
	require.ErrorAs(t, err, &rangeErr)
}

func TestFromNode_RefusesBadTrees(t *testing.T) {
	var kindErr *format.InvalidTagKindError
	_, err := FromNode(nil, true)
	require.ErrorAs(t, err, &kindErr)

	_, err = FromNode(&tag.Node{Kind: format.TagEnd}, true)
	require.ErrorAs(t, err, &kindErr)

	// Duplicate compound names are refused on the way out too.
	_, err = FromNode(tag.NewCompound("r", tag.NewInt8("x", 1), tag.NewInt8("x", 2)), true)
	var dupErr *format.DuplicateNameError
	require.ErrorAs(t, err, &dupErr)

	// List content mismatch.
	_, err = FromNode(tag.NewList("l", format.TagInt32, &tag.Node{Kind: format.TagString}), true)
	require.ErrorIs(t, err, format.ErrListContentMismatch)
}

func TestUnnamedRoot(t *testing.T) {
	el, err := FromNode(tag.NewInt32("", 5), false)
	require.NoError(t, err)
	_, ok := el.Attr("Name")
	require.False(t, ok)

	back, err := ToNode(el)
	require.NoError(t, err)
	require.Equal(t, "", back.Name)
	require.Equal(t, int32(5), back.Int32)
}

func TestUnmarshal_NoRoot(t *testing.T) {
	var synErr *format.SyntaxError
	_, err := Unmarshal([]byte("  "))
	require.ErrorAs(t, err, &synErr)
}
