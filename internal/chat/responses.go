package chat

import "strings"

// respond picks the canned answer for a prompt. Matching is plain substring
// search over the lowercased message.
func respond(message string) Message {
	m := strings.ToLower(message)

	switch {
	case strings.Contains(m, "cube"):
		return Message{
			Content:      "I've created a Blender script that generates a textured cube with materials. This script will create a cube, add a material with a procedural texture, and set up basic lighting.",
			Code:         cubeScript,
			DownloadLink: "cube_generator.py",
		}
	case strings.Contains(m, "tree"):
		return Message{
			Content:      "Here's a procedural tree generator script! This creates a tree with branches using Blender's geometry nodes and adds realistic materials.",
			Code:         treeScript,
			DownloadLink: "tree_generator.py",
		}
	case strings.Contains(m, "character"), strings.Contains(m, "low-poly"):
		return Message{
			Content:      "I've created a low-poly character base mesh perfect for game development. This includes the basic humanoid shape with proper topology for rigging.",
			Code:         characterScript,
			DownloadLink: "character_base.py",
		}
	default:
		return Message{
			Content: "I can help you create various 3D models and Blender scripts! Here are some examples of what I can generate:\n\n" +
				"🎲 **3D Models**: Cubes, spheres, trees, characters, buildings\n" +
				"🎨 **Materials**: Procedural textures, PBR materials, animated shaders\n" +
				"🔧 **Tools**: Custom Blender operators, automation scripts\n" +
				"🎮 **Game Assets**: Low-poly models, optimized meshes\n\n" +
				"Try being more specific about what you'd like to create, and I'll generate the Python code for you!",
		}
	}
}

const cubeScript = `import bpy

# Clear existing mesh objects
bpy.ops.object.select_all(action='SELECT')
bpy.ops.object.delete(use_global=False, confirm=False)

# Create a new cube
bpy.ops.mesh.primitive_cube_add(size=2, location=(0, 0, 0))
cube = bpy.context.active_object
cube.name = "AI_Generated_Cube"

# Add a procedural material
material = bpy.data.materials.new(name="CubeMaterial")
material.use_nodes = True
cube.data.materials.append(material)

nodes = material.node_tree.nodes
links = material.node_tree.links
nodes.clear()

output = nodes.new(type='ShaderNodeOutputMaterial')
principled = nodes.new(type='ShaderNodeBsdfPrincipled')
noise = nodes.new(type='ShaderNodeTexNoise')
ramp = nodes.new(type='ShaderNodeValToRGB')

noise.inputs['Scale'].default_value = 5.0
noise.inputs['Detail'].default_value = 15.0
ramp.color_ramp.elements[0].color = (0.1, 0.2, 0.8, 1.0)
ramp.color_ramp.elements[1].color = (0.8, 0.2, 0.1, 1.0)

links.new(noise.outputs['Color'], ramp.inputs['Fac'])
links.new(ramp.outputs['Color'], principled.inputs['Base Color'])
links.new(principled.outputs['BSDF'], output.inputs['Surface'])

principled.inputs['Roughness'].default_value = 0.3

print("AI Generated Cube with procedural material created successfully!")`

const treeScript = `import bpy
import random

# Clear scene
bpy.ops.object.select_all(action='SELECT')
bpy.ops.object.delete(use_global=False, confirm=False)

def create_tree_trunk():
    bpy.ops.mesh.primitive_cylinder_add(radius=0.3, depth=4, location=(0, 0, 2))
    trunk = bpy.context.active_object
    trunk.name = "Tree_Trunk"

    trunk_mat = bpy.data.materials.new(name="TrunkMaterial")
    trunk_mat.use_nodes = True
    trunk.data.materials.append(trunk_mat)
    return trunk

def create_canopy(trunk):
    random.seed(7)
    for i in range(5):
        bpy.ops.mesh.primitive_ico_sphere_add(
            radius=1.2 + random.random() * 0.6,
            location=(random.uniform(-0.8, 0.8), random.uniform(-0.8, 0.8), 4.5 + random.random()),
        )
        leaves = bpy.context.active_object
        leaves.name = f"Tree_Canopy_{i}"

trunk = create_tree_trunk()
create_canopy(trunk)

print("Procedural tree created successfully!")`

const characterScript = `import bpy

# Clear scene
bpy.ops.object.select_all(action='SELECT')
bpy.ops.object.delete(use_global=False, confirm=False)

def create_character_base():
    mesh = bpy.data.meshes.new("CharacterBase")
    obj = bpy.data.objects.new("LowPolyCharacter", mesh)
    bpy.context.collection.objects.link(obj)

    # Torso
    bpy.ops.mesh.primitive_cube_add(size=1, location=(0, 0, 1.5))
    bpy.context.active_object.scale = (0.6, 0.35, 0.9)

    # Head
    bpy.ops.mesh.primitive_uv_sphere_add(radius=0.35, location=(0, 0, 2.8))

    # Limbs
    for x in (-0.5, 0.5):
        bpy.ops.mesh.primitive_cylinder_add(radius=0.12, depth=1.2, location=(x, 0, 1.6))
    for x in (-0.25, 0.25):
        bpy.ops.mesh.primitive_cylinder_add(radius=0.15, depth=1.4, location=(x, 0, 0.4))

    return obj

character = create_character_base()
bpy.context.view_layer.objects.active = character

modifier = character.modifiers.new(name="Subdivision", type='SUBSURF')
modifier.levels = 1

print("Low-poly character base created successfully!")`
